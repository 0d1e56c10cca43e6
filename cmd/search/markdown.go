package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/pdbrowse/internal/cmdutil"
	"github.com/lepinkainen/pdbrowse/internal/config"
	"github.com/lepinkainen/pdbrowse/internal/fileutil"
	"github.com/lepinkainen/pdbrowse/internal/obsidian"
	"github.com/lepinkainen/pdbrowse/internal/openlibrary"
)

const defaultCoverWidth = 250

// downloadCover is swapped out in tests.
var downloadCover = cmdutil.DownloadWorkCover

// writeWorkToMarkdown writes one note per work. It reports whether the file
// was written; existing notes are kept unless --overwrite is set.
func writeWorkToMarkdown(ctx context.Context, work openlibrary.Work, directory string, withCover bool) (bool, error) {
	filePath := fileutil.GetMarkdownFilePath(work.Title, directory)

	fm := obsidian.NewNoteFrontmatter(work.Title, "book")
	fm.Set("openlibrary_key", work.Key)
	fm.Set("url", work.DetailURL())
	fm.SetIf("subtitle", work.Subtitle)
	fm.SetIf("authors", work.AuthorNames)
	fm.SetIf("year", work.FirstPublishYear)

	tags := obsidian.NewTagSet()
	tags.Add("openlibrary")
	tags.Add("book")
	if work.FirstPublishYear != nil {
		tags.AddFormat("year/%ds", (*work.FirstPublishYear/10)*10)
	}
	obsidian.ApplyTagSet(fm, tags)

	var body strings.Builder

	if coverURL, ok := work.CoverArtURLSize(openlibrary.CoverLarge); ok {
		fm.Set("cover", coverURL)
		if withCover {
			result, err := downloadCover(ctx, work, directory)
			switch {
			case err != nil:
				slog.Warn("Failed to download cover", "title", work.Title, "error", err)
				body.WriteString(fmt.Sprintf("![](%s)\n\n", coverURL))
			case result != nil:
				fm.Set("cover", result.RelativePath)
				body.WriteString(fmt.Sprintf("![[%s|%d]]\n\n", result.Filename, defaultCoverWidth))
			}
		} else {
			body.WriteString(fmt.Sprintf("![](%s)\n\n", coverURL))
		}
	}

	body.WriteString("## Book Info\n\n")
	body.WriteString(fmt.Sprintf("- **Authors:** %s\n", work.DisplayAuthors()))
	body.WriteString(fmt.Sprintf("- **First published:** %s\n", work.DisplayYear()))
	body.WriteString(fmt.Sprintf("- **Open Library:** [%s](%s)\n", work.Key, work.DetailURL()))

	markdown, err := obsidian.BuildNoteMarkdown(fm, body.String())
	if err != nil {
		return false, fmt.Errorf("failed to build markdown: %w", err)
	}

	written, err := fileutil.WriteFileWithOverwrite(filePath, markdown, 0644, config.OverwriteFiles)
	if err != nil {
		return false, err
	}
	if written {
		slog.Debug("Wrote note", "file", filePath)
	} else {
		slog.Debug("Note already exists, skipping", "file", filePath)
	}
	return written, nil
}
