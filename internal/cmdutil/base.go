// Package cmdutil holds helpers shared by the export-producing commands.
package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// OutputConfig describes where a command writes its exports.
type OutputConfig struct {
	// Name is the export name, used as the default subdirectory and JSON file name
	Name string
	// OutputDir is the markdown subdirectory below markdownoutputdir
	OutputDir string
	// WriteMarkdown enables the markdown directory
	WriteMarkdown bool
	// JSONOutput is the JSON file path, defaulted below jsonoutputdir
	JSONOutput string
	// WriteJSON enables JSON output
	WriteJSON bool
}

// SetupOutputDir resolves the markdown and JSON paths against the configured
// base directories and creates the directories that will be written to.
func SetupOutputDir(cfg *OutputConfig) error {
	if cfg.WriteMarkdown {
		subdir := cfg.OutputDir
		if subdir == "" {
			subdir = cfg.Name
		}

		baseDir := viper.GetString("markdownoutputdir")
		if baseDir == "" {
			baseDir = "markdown"
		}
		cfg.OutputDir = filepath.Clean(filepath.Join(baseDir, subdir))

		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if cfg.WriteJSON {
		if cfg.JSONOutput == "" {
			jsonBaseDir := viper.GetString("jsonoutputdir")
			if jsonBaseDir == "" {
				jsonBaseDir = "json"
			}
			cfg.JSONOutput = filepath.Clean(filepath.Join(jsonBaseDir, cfg.Name+".json"))
		}

		if err := os.MkdirAll(filepath.Dir(cfg.JSONOutput), 0755); err != nil {
			return fmt.Errorf("failed to create JSON output directory: %w", err)
		}
	}

	return nil
}
