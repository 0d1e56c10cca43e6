package openlibrary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCoverArtURLPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		work   Work
		want   string
		wantOK bool
	}{
		{
			name:   "cover id",
			work:   Work{CoverID: intPtr(123)},
			want:   "https://covers.openlibrary.org/b/id/123-M.jpg",
			wantOK: true,
		},
		{
			name:   "cover id wins over edition key",
			work:   Work{CoverID: intPtr(123), CoverEditionKey: "OL1M"},
			want:   "https://covers.openlibrary.org/b/id/123-M.jpg",
			wantOK: true,
		},
		{
			name:   "edition key only",
			work:   Work{CoverEditionKey: "OL1M"},
			want:   "https://covers.openlibrary.org/b/olid/OL1M-M.jpg",
			wantOK: true,
		},
		{
			name:   "non-positive cover id falls back to edition key",
			work:   Work{CoverID: intPtr(-1), CoverEditionKey: "OL1M"},
			want:   "https://covers.openlibrary.org/b/olid/OL1M-M.jpg",
			wantOK: true,
		},
		{
			name:   "neither",
			work:   Work{},
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.work.CoverArtURL()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoverArtURLFromWireRecord(t *testing.T) {
	var doc searchDoc
	require.NoError(t, json.Unmarshal([]byte(`{"key":"/works/OL1W","title":"T","cover_i":123}`), &doc))
	work, err := doc.toWork()
	require.NoError(t, err)

	url, ok := work.CoverArtURL()
	assert.True(t, ok)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/123-M.jpg", url)

	large, ok := work.CoverArtURLSize(CoverLarge)
	assert.True(t, ok)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/123-L.jpg", large)
}

func TestDisplayAuthors(t *testing.T) {
	assert.Equal(t, "Jane Austen", Work{AuthorNames: []string{"  ", "Jane Austen"}}.DisplayAuthors())
	assert.Equal(t, "Jane Austen, Anna Austen", Work{AuthorNames: []string{" Jane Austen ", "", "Anna Austen"}}.DisplayAuthors())
	assert.Equal(t, "Unknown author", Work{}.DisplayAuthors())
	assert.Equal(t, "Unknown author", Work{AuthorNames: []string{" ", "\t"}}.DisplayAuthors())
}

func TestDisplayYear(t *testing.T) {
	assert.Equal(t, "1813", Work{FirstPublishYear: intPtr(1813)}.DisplayYear())
	assert.Equal(t, "Unknown year", Work{}.DisplayYear())
}

func TestDetailURL(t *testing.T) {
	assert.Equal(t, "https://openlibrary.org/works/OL66554W", Work{Key: "/works/OL66554W"}.DetailURL())
}

func TestSearchDocRequiresKeyAndTitle(t *testing.T) {
	title := "Emma"
	key := "/works/OL1W"

	_, err := searchDoc{Title: &title}.toWork()
	assert.Error(t, err)

	_, err = searchDoc{Key: &key}.toWork()
	assert.Error(t, err)

	work, err := searchDoc{Key: &key, Title: &title}.toWork()
	require.NoError(t, err)
	assert.Equal(t, "Emma", work.Title)
}
