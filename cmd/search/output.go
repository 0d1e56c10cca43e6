package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/pdbrowse/internal/cmdutil"
	"github.com/lepinkainen/pdbrowse/internal/config"
	"github.com/lepinkainen/pdbrowse/internal/fileutil"
	"github.com/lepinkainen/pdbrowse/internal/openlibrary"
)

// workRecord is the exported shape of a work, with its derived URLs.
type workRecord struct {
	Key              string   `json:"key" db:"key"`
	Title            string   `json:"title" db:"title"`
	Subtitle         string   `json:"subtitle,omitempty" db:"subtitle"`
	Authors          []string `json:"authors" db:"authors"`
	FirstPublishYear *int     `json:"first_publish_year,omitempty" db:"first_publish_year"`
	CoverID          *int     `json:"cover_id,omitempty" db:"cover_id"`
	CoverEditionKey  string   `json:"cover_edition_key,omitempty" db:"cover_edition_key"`
	URL              string   `json:"url" db:"url"`
	CoverURL         string   `json:"cover_url,omitempty" db:"cover_url"`
}

func toRecord(work openlibrary.Work) workRecord {
	coverURL, _ := work.CoverArtURL()
	authors := work.AuthorNames
	if authors == nil {
		authors = []string{}
	}
	return workRecord{
		Key:              work.Key,
		Title:            work.Title,
		Subtitle:         work.Subtitle,
		Authors:          authors,
		FirstPublishYear: work.FirstPublishYear,
		CoverID:          work.CoverID,
		CoverEditionKey:  work.CoverEditionKey,
		URL:              work.DetailURL(),
		CoverURL:         coverURL,
	}
}

const openlibraryWorksSchema = `CREATE TABLE IF NOT EXISTS openlibrary_works (
		key TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		subtitle TEXT,
		authors TEXT,
		first_publish_year INTEGER,
		cover_id INTEGER,
		cover_edition_key TEXT,
		url TEXT,
		cover_url TEXT
	)`

func workToMap(work openlibrary.Work) map[string]any {
	return cmdutil.StructToMap(toRecord(work), cmdutil.StructToMapOptions{JoinStringSlices: true})
}

func writeExports(ctx context.Context, params Params, works []openlibrary.Work) error {
	out := &cmdutil.OutputConfig{
		Name:          ExportName,
		OutputDir:     params.Output,
		WriteMarkdown: params.WriteMarkdown,
		JSONOutput:    params.JSONOutput,
		WriteJSON:     params.WriteJSON,
	}
	if err := cmdutil.SetupOutputDir(out); err != nil {
		return err
	}

	if params.WriteJSON {
		if err := writeWorksToJSON(works, out.JSONOutput); err != nil {
			return err
		}
	}

	if params.WriteMarkdown {
		written := 0
		for _, work := range works {
			ok, err := writeWorkToMarkdown(ctx, work, out.OutputDir, params.Covers)
			if err != nil {
				return fmt.Errorf("failed to write note for %q: %w", work.Title, err)
			}
			if ok {
				written++
			}
		}
		slog.Info("Wrote markdown notes", "directory", out.OutputDir, "written", written, "total", len(works))
	}

	return cmdutil.WriteToDatastore(ctx, works, openlibraryWorksSchema, "openlibrary_works", "Open Library works", workToMap)
}

func writeWorksToJSON(works []openlibrary.Work, filename string) error {
	records := make([]workRecord, len(works))
	for i, work := range works {
		records[i] = toRecord(work)
	}
	_, err := fileutil.WriteJSONFile(records, filename, config.OverwriteFiles)
	return err
}
