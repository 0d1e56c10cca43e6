package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/pdbrowse/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEnv_Path(t *testing.T) {
	env := NewTestEnv(t)

	path := env.Path("subdir", "file.txt")
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Join(env.RootDir(), "subdir", "file.txt"), path)
}

func TestTestEnv_WriteReadFile(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("nested/test.txt", "test content")

	assert.Equal(t, "test content", env.ReadFileString("nested/test.txt"))
	assert.Equal(t, []byte("test content"), env.ReadFile("nested/test.txt"))
}

func TestTestEnv_FileExists(t *testing.T) {
	env := NewTestEnv(t)

	assert.False(t, env.FileExists("nonexistent.txt"))
	env.RequireFileNotExists("nonexistent.txt")

	env.WriteFileString("exists.txt", "content")
	assert.True(t, env.FileExists("exists.txt"))
	env.RequireFileExists("exists.txt")
}

func TestTestEnv_MkdirAllAndListFiles(t *testing.T) {
	env := NewTestEnv(t)

	env.MkdirAll("dir/sub")
	env.WriteFileString("dir/a.txt", "a")

	info, err := os.Stat(env.Path("dir/sub"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.ElementsMatch(t, []string{"a.txt", "sub"}, env.ListFiles("dir"))
}

func TestTestEnv_Chdir(t *testing.T) {
	env := NewTestEnv(t)
	env.MkdirAll("work")

	t.Run("inner", func(t *testing.T) {
		inner := &TestEnv{t: t, rootDir: env.RootDir()}
		inner.Chdir("work")

		wd, err := os.Getwd()
		require.NoError(t, err)
		resolved, err := filepath.EvalSymlinks(env.Path("work"))
		require.NoError(t, err)
		wdResolved, err := filepath.EvalSymlinks(wd)
		require.NoError(t, err)
		assert.Equal(t, resolved, wdResolved)
	})
}

func TestTestEnv_String(t *testing.T) {
	env := NewTestEnv(t)
	assert.Contains(t, env.String(), env.RootDir())
}

func TestResetConfig(t *testing.T) {
	config.OverwriteFiles = true
	viper.Set("markdownoutputdir", "somewhere")

	t.Run("reset", func(t *testing.T) {
		ResetConfig(t)
		config.OverwriteFiles = false
		assert.False(t, viper.IsSet("markdownoutputdir"))
	})

	assert.True(t, config.OverwriteFiles, "globals restored after the test")
	assert.False(t, viper.IsSet("markdownoutputdir"), "viper reset after the test")
	config.OverwriteFiles = false
	viper.Reset()
}

func TestSetupDatasetteDB(t *testing.T) {
	ResetConfig(t)
	env := NewTestEnv(t)

	path := SetupDatasetteDB(t, env)

	assert.Equal(t, env.Path("test.db"), path)
	assert.True(t, viper.GetBool("datasette.enabled"))
	assert.Equal(t, "local", viper.GetString("datasette.mode"))
	assert.Equal(t, path, viper.GetString("datasette.dbfile"))
}

func TestSetupMarkdownOutput(t *testing.T) {
	ResetConfig(t)
	env := NewTestEnv(t)

	SetupMarkdownOutput(t, env)

	assert.Equal(t, env.RootDir(), viper.GetString("markdownoutputdir"))
}
