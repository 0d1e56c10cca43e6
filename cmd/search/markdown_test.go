package search

import (
	"context"
	"errors"
	"testing"

	"github.com/lepinkainen/pdbrowse/internal/config"
	"github.com/lepinkainen/pdbrowse/internal/fileutil"
	"github.com/lepinkainen/pdbrowse/internal/openlibrary"
	"github.com/lepinkainen/pdbrowse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCoverDownload(t *testing.T, fn func(ctx context.Context, work openlibrary.Work, dir string) (*fileutil.CoverDownloadResult, error)) {
	t.Helper()
	orig := downloadCover
	downloadCover = fn
	t.Cleanup(func() { downloadCover = orig })
}

func TestWriteWorkToMarkdown(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)

	written, err := writeWorkToMarkdown(context.Background(), sampleWorks()[0], env.RootDir(), false)
	require.NoError(t, err)
	assert.True(t, written)

	want := `---
authors:
    - Frank Herbert
cover: https://covers.openlibrary.org/b/id/11481354-L.jpg
openlibrary_key: /works/OL893415W
tags: [book, openlibrary, year/1960s]
title: Dune
type: book
url: https://openlibrary.org/works/OL893415W
year: 1965
---
![](https://covers.openlibrary.org/b/id/11481354-L.jpg)

## Book Info

- **Authors:** Frank Herbert
- **First published:** 1965
- **Open Library:** [/works/OL893415W](https://openlibrary.org/works/OL893415W)
`
	assert.Equal(t, want, env.ReadFileString("Dune.md"))
}

func TestWriteWorkToMarkdown_MinimalWork(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)

	work := openlibrary.Work{Key: "/works/OL3W", Title: "Either/Or: A Fragment"}
	_, err := writeWorkToMarkdown(context.Background(), work, env.RootDir(), true)
	require.NoError(t, err)

	content := env.ReadFileString("Either-Or - A Fragment.md")
	assert.Contains(t, content, "title: 'Either/Or: A Fragment'\n")
	assert.Contains(t, content, "tags: [book, openlibrary]\n")
	assert.NotContains(t, content, "cover:")
	assert.NotContains(t, content, "year:")
	assert.Contains(t, content, "- **Authors:** Unknown author\n")
}

func TestWriteWorkToMarkdown_RespectsOverwrite(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("Dune.md", "my notes")

	written, err := writeWorkToMarkdown(context.Background(), sampleWorks()[0], env.RootDir(), false)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, "my notes", env.ReadFileString("Dune.md"))

	config.OverwriteFiles = true
	written, err = writeWorkToMarkdown(context.Background(), sampleWorks()[0], env.RootDir(), false)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Contains(t, env.ReadFileString("Dune.md"), "openlibrary_key: /works/OL893415W")
}

func TestWriteWorkToMarkdown_WithDownloadedCover(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)

	stubCoverDownload(t, func(ctx context.Context, work openlibrary.Work, dir string) (*fileutil.CoverDownloadResult, error) {
		assert.Equal(t, env.RootDir(), dir)
		return &fileutil.CoverDownloadResult{
			Downloaded:   true,
			Filename:     "Dune - cover.jpg",
			RelativePath: "attachments/Dune - cover.jpg",
		}, nil
	})

	_, err := writeWorkToMarkdown(context.Background(), sampleWorks()[0], env.RootDir(), true)
	require.NoError(t, err)

	content := env.ReadFileString("Dune.md")
	assert.Contains(t, content, "cover: attachments/Dune - cover.jpg\n")
	assert.Contains(t, content, "![[Dune - cover.jpg|250]]\n")
}

func TestWriteWorkToMarkdown_CoverFailureFallsBackToURL(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)

	stubCoverDownload(t, func(ctx context.Context, work openlibrary.Work, dir string) (*fileutil.CoverDownloadResult, error) {
		return nil, errors.New("connection reset")
	})

	_, err := writeWorkToMarkdown(context.Background(), sampleWorks()[0], env.RootDir(), true)
	require.NoError(t, err)

	content := env.ReadFileString("Dune.md")
	assert.Contains(t, content, "cover: https://covers.openlibrary.org/b/id/11481354-L.jpg\n")
	assert.Contains(t, content, "![](https://covers.openlibrary.org/b/id/11481354-L.jpg)\n")
}
