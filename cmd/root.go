package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/pdbrowse/cmd/browse"
	searchcmd "github.com/lepinkainen/pdbrowse/cmd/search"
	"github.com/lepinkainen/pdbrowse/internal/config"
)

var (
	runSearch = searchcmd.Run
	runBrowse = browse.Run
)

// CLI represents the complete command structure for the pdbrowse application
type CLI struct {
	// Global flags
	Verbose      bool `short:"v" help:"Enable debug logging"`
	Overwrite    bool `help:"Overwrite existing export files"`
	UpdateCovers bool `help:"Re-download cover images even if they already exist"`

	// Datasette flags
	Datasette   bool   `help:"Write search results to Datasette" default:"${datasette_enabled}" negatable:""`
	DatasetteDB string `help:"Path to SQLite database file" default:"${datasette_dbfile}"`

	Search SearchCmd `cmd:"" help:"Search Open Library once and print the results"`
	Browse BrowseCmd `cmd:"" help:"Browse Open Library interactively"`
}

// SearchCmd represents the one-shot search command
type SearchCmd struct {
	Query      []string `arg:"" help:"Search terms"`
	Output     string   `short:"o" help:"Subdirectory under markdown output directory for notes" default:"openlibrary"`
	Markdown   bool     `help:"Write one markdown note per result"`
	Covers     bool     `help:"Download cover art next to markdown notes"`
	JSON       bool     `help:"Write results to JSON format"`
	JSONOutput string   `help:"Path to JSON output file (defaults to json/openlibrary.json)"`
}

// BrowseCmd represents the interactive browser command
type BrowseCmd struct {
	Query []string `arg:"" optional:"" help:"Initial search terms"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)
	initConfig()

	var cli CLI

	kctx := kong.Parse(&cli,
		kong.Name("pdbrowse"),
		kong.Description("Search and browse the Open Library catalog from the terminal."),
		kong.UsageOnError(),
		kongVars(),
	)

	if cli.Verbose {
		initLogging(true)
	}
	updateGlobalConfig(&cli)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.Bind(&cli)

	if err := kctx.Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("Interrupted")
			os.Exit(130)
		}
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// kongVars exposes configured values as flag defaults so config.yaml and
// the environment apply unless a flag overrides them.
func kongVars() kong.Vars {
	return kong.Vars{
		"datasette_enabled": strconv.FormatBool(viper.GetBool("datasette.enabled")),
		"datasette_dbfile":  viper.GetString("datasette.dbfile"),
	}
}

func initConfig() {
	config.SetDefaults()

	viper.SetEnvPrefix("PDBROWSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
		slog.Info("Config file not found, writing default config file")
		if err := viper.SafeWriteConfig(); err != nil {
			slog.Warn("Error writing config file", "error", err)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetOverwriteFiles(cli.Overwrite)
	config.SetUpdateCovers(cli.UpdateCovers)

	viper.Set("datasette.enabled", cli.Datasette)
	if cli.DatasetteDB != "" {
		viper.Set("datasette.dbfile", cli.DatasetteDB)
	}
}

// Run methods for each command

func (s *SearchCmd) Run(ctx context.Context) error {
	return runSearch(ctx, searchcmd.Params{
		Query:         strings.Join(s.Query, " "),
		WriteJSON:     s.JSON,
		JSONOutput:    s.JSONOutput,
		WriteMarkdown: s.Markdown || s.Covers,
		Output:        s.Output,
		Covers:        s.Covers,
	})
}

func (b *BrowseCmd) Run(ctx context.Context, cli *CLI) error {
	return runBrowse(ctx, strings.Join(b.Query, " "), cli.Verbose)
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
