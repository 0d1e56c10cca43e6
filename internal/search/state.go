package search

import "github.com/lepinkainen/pdbrowse/internal/openlibrary"

// Mode is the single presentation mode derived from a State.
type Mode int

const (
	// ModeIdle means nothing to show: no results, no error, not loading.
	ModeIdle Mode = iota
	// ModeLoading means a lookup is in flight.
	ModeLoading
	// ModeError means the last lookup failed or the query is too short.
	ModeError
	// ModeResults means there are results to show.
	ModeResults
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeError:
		return "error"
	case ModeResults:
		return "results"
	default:
		return "idle"
	}
}

// State is the observable search state. ErrorMessage is empty when there
// is no error.
type State struct {
	Query        string
	Results      []openlibrary.Work
	IsLoading    bool
	ErrorMessage string
}

// Mode returns the visible mode with precedence loading > error > empty > results.
func (s State) Mode() Mode {
	switch {
	case s.IsLoading:
		return ModeLoading
	case s.ErrorMessage != "":
		return ModeError
	case len(s.Results) == 0:
		return ModeIdle
	default:
		return ModeResults
	}
}

func (s State) clone() State {
	dup := s
	dup.Results = cloneWorks(s.Results)
	return dup
}

func cloneWorks(works []openlibrary.Work) []openlibrary.Work {
	if len(works) == 0 {
		return nil
	}
	dup := make([]openlibrary.Work, len(works))
	copy(dup, works)
	return dup
}
