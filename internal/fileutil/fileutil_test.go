package fileutil

import (
	"os"
	"testing"

	"github.com/lepinkainen/pdbrowse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "The Hobbit", want: "The Hobbit"},
		{name: "colon", input: "Dune: Messiah", want: "Dune - Messiah"},
		{name: "slashes", input: "Either/Or\\Both", want: "Either-Or-Both"},
		{name: "forbidden characters", input: `What? "Why" <Not> *Now*|`, want: "What Why Not Now"},
		{name: "surrounding whitespace", input: "  Emma  ", want: "Emma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestGetMarkdownFilePath(t *testing.T) {
	assert.Equal(t, "notes/Dune - Messiah.md", GetMarkdownFilePath("Dune: Messiah", "notes"))
}

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("file.txt", "x")
	env.MkdirAll("dir")

	assert.True(t, FileExists(env.Path("file.txt")))
	assert.False(t, FileExists(env.Path("dir")), "directories are not files")
	assert.False(t, FileExists(env.Path("missing.txt")))
}

func TestWriteFileWithOverwrite(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("nested", "out.txt")

	written, err := WriteFileWithOverwrite(path, []byte("first"), 0644, false)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = WriteFileWithOverwrite(path, []byte("second"), 0644, false)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, "first", env.ReadFileString("nested/out.txt"))

	written, err = WriteFileWithOverwrite(path, []byte("third"), 0644, true)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, "third", env.ReadFileString("nested/out.txt"))
}

func TestWriteJSONFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("out", "works.json")

	data := []map[string]any{{"key": "/works/OL1W", "title": "Dune"}}

	written, err := WriteJSONFile(data, path, false)
	require.NoError(t, err)
	assert.True(t, written)

	content := env.ReadFileString("out/works.json")
	assert.Contains(t, content, "\n  {\n")
	assert.Contains(t, content, `"title": "Dune"`)

	written, err = WriteJSONFile([]string{"replaced"}, path, false)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Contains(t, env.ReadFileString("out/works.json"), "Dune")
}

func TestWriteJSONFile_MarshalError(t *testing.T) {
	env := testutil.NewTestEnv(t)

	_, err := WriteJSONFile(map[string]any{"bad": make(chan int)}, env.Path("bad.json"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal JSON")
	_, statErr := os.Stat(env.Path("bad.json"))
	assert.True(t, os.IsNotExist(statErr))
}
