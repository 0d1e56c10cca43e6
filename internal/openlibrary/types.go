package openlibrary

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	catalogHost = "https://openlibrary.org"
	coverHost   = "https://covers.openlibrary.org"

	unknownAuthor = "Unknown author"
	unknownYear   = "Unknown year"
)

// CoverSize selects one of the cover image sizes served by the covers API.
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// Work is a single catalog record from the search API.
// Optional fields use the zero value ("" or nil) for absent.
type Work struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle,omitempty"`
	AuthorNames      []string `json:"author_name,omitempty"`
	FirstPublishYear *int     `json:"first_publish_year,omitempty"`
	CoverID          *int     `json:"cover_i,omitempty"`
	CoverEditionKey  string   `json:"cover_edition_key,omitempty"`
}

// DisplayAuthors joins the non-blank author names, or returns a placeholder
// when there are none.
func (w Work) DisplayAuthors() string {
	names := make([]string, 0, len(w.AuthorNames))
	for _, name := range w.AuthorNames {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return unknownAuthor
	}
	return strings.Join(names, ", ")
}

// DisplayYear returns the first publication year or a placeholder.
func (w Work) DisplayYear() string {
	if w.FirstPublishYear == nil {
		return unknownYear
	}
	return strconv.Itoa(*w.FirstPublishYear)
}

// DetailURL returns the catalog page for the work.
func (w Work) DetailURL() string {
	return catalogHost + w.Key
}

// CoverArtURL returns the medium cover image URL. ok is false when the work
// has neither a cover id nor a cover edition key.
func (w Work) CoverArtURL() (url string, ok bool) {
	return w.CoverArtURLSize(CoverMedium)
}

// CoverArtURLSize returns the cover image URL for the given size, preferring
// the cover id over the edition key.
func (w Work) CoverArtURLSize(size CoverSize) (string, bool) {
	if w.CoverID != nil && *w.CoverID > 0 {
		return fmt.Sprintf("%s/b/id/%d-%s.jpg", coverHost, *w.CoverID, size), true
	}
	if key := strings.TrimSpace(w.CoverEditionKey); key != "" {
		return fmt.Sprintf("%s/b/olid/%s-%s.jpg", coverHost, key, size), true
	}
	return "", false
}

// searchResponse matches the search.json payload. Docs and the required doc
// fields are pointers so that absence can be told apart from empty values.
type searchResponse struct {
	Docs *[]searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              *string  `json:"key"`
	Title            *string  `json:"title"`
	Subtitle         string   `json:"subtitle"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear *int     `json:"first_publish_year"`
	CoverI           *int     `json:"cover_i"`
	CoverEditionKey  string   `json:"cover_edition_key"`
}

func (d searchDoc) toWork() (Work, error) {
	if d.Key == nil {
		return Work{}, fmt.Errorf("doc is missing key")
	}
	if d.Title == nil {
		return Work{}, fmt.Errorf("doc %s is missing title", *d.Key)
	}
	return Work{
		Key:              *d.Key,
		Title:            *d.Title,
		Subtitle:         d.Subtitle,
		AuthorNames:      d.AuthorName,
		FirstPublishYear: d.FirstPublishYear,
		CoverID:          d.CoverI,
		CoverEditionKey:  d.CoverEditionKey,
	}, nil
}
