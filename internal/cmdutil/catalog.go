package cmdutil

import (
	"context"

	"github.com/lepinkainen/pdbrowse/internal/config"
	"github.com/lepinkainen/pdbrowse/internal/fileutil"
	"github.com/lepinkainen/pdbrowse/internal/openlibrary"
	"github.com/lepinkainen/pdbrowse/internal/ratelimit"
)

// NewCatalogClient builds an Open Library client from the openlibrary.* settings.
func NewCatalogClient(opts ...openlibrary.Option) *openlibrary.Client {
	settings := config.CatalogSettings()
	base := []openlibrary.Option{
		openlibrary.WithBaseURL(settings.BaseURL),
		openlibrary.WithTimeout(settings.Timeout),
		openlibrary.WithRateLimiter(ratelimit.New("OpenLibrary", settings.RatePerSecond)),
	}
	return openlibrary.NewClient(append(base, opts...)...)
}

// DownloadWorkCover saves the large cover art of work under dir/attachments.
// Works without cover art return a nil result.
func DownloadWorkCover(ctx context.Context, work openlibrary.Work, dir string) (*fileutil.CoverDownloadResult, error) {
	url, ok := work.CoverArtURLSize(openlibrary.CoverLarge)
	if !ok {
		return nil, nil
	}

	return fileutil.DownloadCover(ctx, fileutil.CoverDownloadOptions{
		URL:          url,
		OutputDir:    dir,
		Filename:     fileutil.BuildCoverFilename(work.Title),
		MaxWidth:     config.CoverMaxWidth(),
		UpdateCovers: config.UpdateCovers,
	})
}
