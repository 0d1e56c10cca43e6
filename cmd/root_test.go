package cmd

import (
	"context"
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searchcmd "github.com/lepinkainen/pdbrowse/cmd/search"
	"github.com/lepinkainen/pdbrowse/internal/config"
	"github.com/lepinkainen/pdbrowse/internal/testutil"
)

func resetCmdState(t *testing.T) {
	t.Helper()
	testutil.ResetConfig(t)
	config.SetDefaults()
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"pdbrowse"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("pdbrowse"),
		kong.Description("Search and browse the Open Library catalog from the terminal."),
		kong.UsageOnError(),
		kongVars(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)
	kctx.BindTo(context.Background(), (*context.Context)(nil))
	kctx.Bind(cli)

	return cli, kctx
}

func stubCommands(t *testing.T) (*searchcmd.Params, *string, *bool) {
	t.Helper()

	origSearch, origBrowse := runSearch, runBrowse
	t.Cleanup(func() {
		runSearch = origSearch
		runBrowse = origBrowse
	})

	var gotParams searchcmd.Params
	var gotQuery string
	var gotVerbose bool
	runSearch = func(ctx context.Context, params searchcmd.Params) error {
		gotParams = params
		return nil
	}
	runBrowse = func(ctx context.Context, query string, verbose bool) error {
		gotQuery = query
		gotVerbose = verbose
		return nil
	}
	return &gotParams, &gotQuery, &gotVerbose
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{
		Overwrite:    true,
		UpdateCovers: true,
		Datasette:    true,
		DatasetteDB:  "/tmp/pdbrowse.db",
	}

	updateGlobalConfig(cli)

	assert.True(t, config.OverwriteFiles)
	assert.True(t, config.UpdateCovers)
	assert.True(t, viper.GetBool("datasette.enabled"))
	assert.Equal(t, "/tmp/pdbrowse.db", viper.GetString("datasette.dbfile"))
}

func TestUpdateGlobalConfigKeepsConfiguredDBFile(t *testing.T) {
	resetCmdState(t)
	viper.Set("datasette.dbfile", "/configured.db")

	updateGlobalConfig(&CLI{})

	assert.False(t, viper.GetBool("datasette.enabled"))
	assert.Equal(t, "/configured.db", viper.GetString("datasette.dbfile"))
}

func TestCLIDefaultFlags(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "search", "dune")

	assert.False(t, cli.Verbose)
	assert.False(t, cli.Overwrite, "Overwrite should default to false")
	assert.False(t, cli.UpdateCovers, "UpdateCovers should default to false")
	assert.False(t, cli.Datasette, "Datasette should follow datasette.enabled")
	assert.Equal(t, "./pdbrowse.db", cli.DatasetteDB)
	assert.Equal(t, "openlibrary", cli.Search.Output)
}

func TestCLIDefaultsFollowConfig(t *testing.T) {
	resetCmdState(t)
	viper.Set("datasette.enabled", true)
	viper.Set("datasette.dbfile", "/data/books.db")

	cli, _ := parseCLI(t, "search", "dune")
	assert.True(t, cli.Datasette)
	assert.Equal(t, "/data/books.db", cli.DatasetteDB)

	cli, _ = parseCLI(t, "--no-datasette", "search", "dune")
	assert.False(t, cli.Datasette)
}

func TestCLIFlagsOverrideDefaults(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t,
		"--verbose",
		"--overwrite",
		"--update-covers",
		"--datasette",
		"--datasette-db", "/custom/pdbrowse.db",
		"search", "dune")

	assert.True(t, cli.Verbose)
	assert.True(t, cli.Overwrite)
	assert.True(t, cli.UpdateCovers)
	assert.True(t, cli.Datasette)
	assert.Equal(t, "/custom/pdbrowse.db", cli.DatasetteDB)
}

func TestSearchCommand(t *testing.T) {
	resetCmdState(t)
	gotParams, _, _ := stubCommands(t)

	cli, kctx := parseCLI(t, "search", "the", "left", "hand", "--json", "--json-output", "out.json", "--covers", "-o", "books")
	updateGlobalConfig(cli)
	require.NoError(t, kctx.Run())

	assert.Equal(t, searchcmd.Params{
		Query:         "the left hand",
		WriteJSON:     true,
		JSONOutput:    "out.json",
		WriteMarkdown: true,
		Output:        "books",
		Covers:        true,
	}, *gotParams)
}

func TestSearchCommandMarkdownOnly(t *testing.T) {
	resetCmdState(t)
	gotParams, _, _ := stubCommands(t)

	_, kctx := parseCLI(t, "search", "dune", "--markdown")
	require.NoError(t, kctx.Run())

	assert.True(t, gotParams.WriteMarkdown)
	assert.False(t, gotParams.Covers)
	assert.False(t, gotParams.WriteJSON)
}

func TestBrowseCommand(t *testing.T) {
	resetCmdState(t)
	_, gotQuery, gotVerbose := stubCommands(t)

	_, kctx := parseCLI(t, "-v", "browse", "ursula", "le", "guin")
	require.NoError(t, kctx.Run())

	assert.Equal(t, "ursula le guin", *gotQuery)
	assert.True(t, *gotVerbose)
}

func TestBrowseCommandWithoutQuery(t *testing.T) {
	resetCmdState(t)
	_, gotQuery, gotVerbose := stubCommands(t)

	_, kctx := parseCLI(t, "browse")
	require.NoError(t, kctx.Run())

	assert.Empty(t, *gotQuery)
	assert.False(t, *gotVerbose)
}

func TestInitConfigWritesDefaultConfig(t *testing.T) {
	resetCmdState(t)
	env := testutil.NewTestEnv(t)
	env.Chdir(".")

	initConfig()

	env.RequireFileExists("config.yaml")
	assert.Contains(t, env.ReadFileString("config.yaml"), "openlibrary:")
	assert.Equal(t, "https://openlibrary.org", viper.GetString("openlibrary.baseurl"))
}

func TestInitConfigReadsConfigAndEnv(t *testing.T) {
	resetCmdState(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("config.yaml", "search:\n  minlength: 4\nmarkdownoutputdir: notes\n")
	env.Chdir(".")
	t.Setenv("PDBROWSE_OPENLIBRARY_TIMEOUT", "5s")

	initConfig()

	assert.Equal(t, 4, config.SearchSettings().MinQueryLength)
	assert.Equal(t, "notes", viper.GetString("markdownoutputdir"))
	assert.Equal(t, "5s", config.CatalogSettings().Timeout.String())
}

func TestInitLogging(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		require.NotPanics(t, func() {
			initLogging(verbose)
		})
	}
}
