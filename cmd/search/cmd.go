// Package search implements the one-shot "pdbrowse search" command.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lepinkainen/pdbrowse/internal/cmdutil"
	"github.com/lepinkainen/pdbrowse/internal/config"
	"github.com/lepinkainen/pdbrowse/internal/openlibrary"
	searchctl "github.com/lepinkainen/pdbrowse/internal/search"
)

// ExportName names the default markdown subdirectory and JSON file.
const ExportName = "openlibrary"

// Params holds the options of a single search run.
type Params struct {
	Query         string
	WriteJSON     bool
	JSONOutput    string
	WriteMarkdown bool
	Output        string
	Covers        bool
}

var (
	newSearcher = func() searchctl.Searcher {
		return cmdutil.NewCatalogClient()
	}
	stdout io.Writer = os.Stdout
)

// Run performs one catalog search, prints the results and writes the
// requested exports.
func Run(ctx context.Context, params Params) error {
	works, err := lookup(ctx, params.Query)
	if err != nil {
		return err
	}

	printResults(stdout, params.Query, works)

	return writeExports(ctx, params, works)
}

// lookup drives a controller through a single Submit and returns the settled
// results. A state carrying an error message becomes an error.
func lookup(ctx context.Context, query string) ([]openlibrary.Work, error) {
	ctrl := searchctl.New(newSearcher(),
		searchctl.WithMinQueryLength(config.SearchSettings().MinQueryLength),
	)
	defer ctrl.Close()

	stop := context.AfterFunc(ctx, ctrl.Close)
	defer stop()

	ctrl.Submit(query)
	ctrl.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := ctrl.Snapshot()
	if state.ErrorMessage != "" {
		return nil, errors.New(state.ErrorMessage)
	}
	if strings.TrimSpace(state.Query) == "" {
		return nil, fmt.Errorf("a search query is required")
	}
	return state.Results, nil
}

func printResults(w io.Writer, query string, works []openlibrary.Work) {
	if len(works) == 0 {
		_, _ = fmt.Fprintf(w, "No books found for %q.\n", strings.TrimSpace(query))
		return
	}

	for i, work := range works {
		title := work.Title
		if work.Subtitle != "" {
			title += ": " + work.Subtitle
		}
		_, _ = fmt.Fprintf(w, "%2d. %s\n    %s · %s\n    %s\n", i+1, title, work.DisplayAuthors(), work.DisplayYear(), work.DetailURL())
	}
}
