// Package browse implements the interactive "pdbrowse browse" command.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lepinkainen/humanlog"

	"github.com/lepinkainen/pdbrowse/internal/cmdutil"
	"github.com/lepinkainen/pdbrowse/internal/config"
	"github.com/lepinkainen/pdbrowse/internal/fileutil"
	"github.com/lepinkainen/pdbrowse/internal/openlibrary"
	"github.com/lepinkainen/pdbrowse/internal/search"
	"github.com/lepinkainen/pdbrowse/internal/tui"
	"github.com/spf13/viper"
)

var (
	newSearcher = func() search.Searcher {
		return cmdutil.NewCatalogClient()
	}
	runTUI = tui.Run
)

// Run opens the interactive browser, optionally starting with query.
func Run(ctx context.Context, query string, verbose bool) error {
	restore, err := redirectLogs(viper.GetString("log.file"), verbose)
	if err != nil {
		return err
	}
	defer restore()

	settings := config.SearchSettings()
	ctrl := search.New(newSearcher(),
		search.WithLogger(slog.Default()),
		search.WithDebounce(settings.Debounce),
		search.WithMinQueryLength(settings.MinQueryLength),
	)
	defer ctrl.Close()

	coversDir := config.CoversDir()
	slog.Info("Starting browser", "query", query, "covers_dir", coversDir)

	return runTUI(ctx, ctrl, tui.Options{
		InitialQuery: query,
		DownloadCover: func(ctx context.Context, work openlibrary.Work) (*fileutil.CoverDownloadResult, error) {
			return cmdutil.DownloadWorkCover(ctx, work, coversDir)
		},
	})
}

// redirectLogs sends the default logger to path for as long as the browser
// owns the terminal. An empty path discards logs.
func redirectLogs(path string, verbose bool) (func(), error) {
	previous := slog.Default()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	if path == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return func() { slog.SetDefault(previous) }, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	slog.SetDefault(slog.New(humanlog.NewHandler(file, &humanlog.Options{Level: level})))

	return func() {
		slog.SetDefault(previous)
		_ = file.Close()
	}, nil
}
