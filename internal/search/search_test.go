package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/listenupapp/listenup-shelf/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) (*SearchIndex, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "search-test-*")
	require.NoError(t, err)

	index, err := NewSearchIndex(Options{
		DataPath: tmpDir,
		Logger:   nil,
	})
	require.NoError(t, err)

	cleanup := func() {
		_ = index.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return index, cleanup
}

// loadFixture decodes a library item from the media package's testdata.
func loadFixture(t *testing.T, name string) *media.LibraryItem {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "media", "testdata", name))
	require.NoError(t, err)

	item, err := media.Decode(data)
	require.NoError(t, err)
	return item
}

// setupFixtureIndex indexes the book and podcast fixtures.
func setupFixtureIndex(t *testing.T) (*SearchIndex, func()) {
	t.Helper()

	index, cleanup := setupTestIndex(t)
	require.NoError(t, index.IndexItem(loadFixture(t, "book_item.json")))
	require.NoError(t, index.IndexItem(loadFixture(t, "podcast_item.json")))
	return index, cleanup
}

func hitIDs(result *SearchResult) []string {
	ids := make([]string, 0, len(result.Hits))
	for _, h := range result.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestNewSearchIndex(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
	assert.True(t, index.Fresh())
}

func TestSearchIndex_IndexDocument(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{
		ID:     "li_1",
		Type:   DocTypeBook,
		ItemID: "li_1",
		Name:   "The Hobbit",
		Author: "J.R.R. Tolkien",
	}

	err := index.IndexDocument(doc)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_IndexDocuments_Batch(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*SearchDocument{
		{ID: "li_1", Type: DocTypeBook, Name: "Book One"},
		{ID: "li_2", Type: DocTypeBook, Name: "Book Two"},
		{ID: "li_3", Type: DocTypeBook, Name: "Book Three"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearchIndex_IndexItem(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	// One book, one podcast, two episodes.
	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestSearchIndex_IndexItem_DropsRemovedEpisodes(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	item := loadFixture(t, "podcast_item.json")
	p, ok := item.Podcast()
	require.True(t, ok)
	p.RemoveAudioTrack("y")
	require.NoError(t, index.IndexItem(item))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	result, err := index.Search(context.Background(), SearchParams{Query: "Glow Cloud", Limit: 10})
	require.NoError(t, err)
	assert.NotContains(t, hitIDs(result), EpisodeDocID("li_podcast1", "local_y"))
}

func TestSearchIndex_DeleteItem(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	require.NoError(t, index.DeleteItem("li_podcast1"))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	// Deleting again is a no-op
	require.NoError(t, index.DeleteItem("li_podcast1"))
}

func TestSearchIndex_DeleteDocument(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &SearchDocument{ID: "li_1", Type: DocTypeBook, Name: "Test Book"}
	require.NoError(t, index.IndexDocument(doc))

	require.NoError(t, index.DeleteDocument("li_1"))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Search_Basic(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	result, err := index.Search(context.Background(), SearchParams{Query: "final empire", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)

	top := result.Hits[0]
	assert.Equal(t, "li_8f2a1c", top.ID)
	assert.Equal(t, DocTypeBook, top.Type)
	assert.Equal(t, "li_8f2a1c", top.ItemID)
	assert.Equal(t, "Brandon Sanderson", top.Author)
	assert.Equal(t, "Michael Kramer", top.Narrator)
	assert.Equal(t, int64(1800250), top.Duration)
	assert.True(t, top.Local)
}

func TestSearchIndex_Search_ByAuthor(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	result, err := index.Search(context.Background(), SearchParams{Query: "Sanderson", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"li_8f2a1c"}, hitIDs(result))
}

func TestSearchIndex_Search_EpisodeShowNotes(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	// "notes" only appears in the pilot's HTML description
	result, err := index.Search(context.Background(), SearchParams{Query: "notes", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)

	hit := result.Hits[0]
	assert.Equal(t, EpisodeDocID("li_podcast1", "ep_remote1"), hit.ID)
	assert.Equal(t, DocTypeEpisode, hit.Type)
	assert.Equal(t, "li_podcast1", hit.ItemID)
	assert.Equal(t, "Welcome to Night Vale", hit.ShowName)
	assert.False(t, hit.Local)
}

func TestSearchIndex_Search_ByType(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	result, err := index.Search(context.Background(), SearchParams{
		Types: []DocType{DocTypeEpisode},
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
	for _, hit := range result.Hits {
		assert.Equal(t, DocTypeEpisode, hit.Type)
	}
}

func TestSearchIndex_Search_Filters(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	tests := []struct {
		name   string
		params SearchParams
		want   []string
	}{
		{
			name:   "library",
			params: SearchParams{LibraryID: "lib_c1u6t4p45c35rf0nzd"},
			want:   []string{"li_8f2a1c"},
		},
		{
			name:   "genre slug",
			params: SearchParams{Genres: []string{"comedy"}},
			want:   []string{"li_podcast1"},
		},
		{
			name:   "tag slug",
			params: SearchParams{Tags: []string{"favorites"}},
			want:   []string{"li_8f2a1c"},
		},
		{
			name:   "local only",
			params: SearchParams{LocalOnly: true, Types: []DocType{DocTypeEpisode}},
			want:   []string{EpisodeDocID("li_podcast1", "local_y")},
		},
		{
			name:   "publish year",
			params: SearchParams{MinYear: 2000, MaxYear: 2010},
			want:   []string{"li_8f2a1c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Limit = 10
			result, err := index.Search(context.Background(), tt.params)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, hitIDs(result))
		})
	}
}

func TestSearchIndex_Search_Duration(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	// Book is 1800250ms, the local episode 1500000ms
	result, err := index.Search(context.Background(), SearchParams{
		MinDuration: 1_600_000,
		Limit:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"li_8f2a1c"}, hitIDs(result))

	result, err = index.Search(context.Background(), SearchParams{
		MinDuration: 1,
		MaxDuration: 1_600_000,
		Limit:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{EpisodeDocID("li_podcast1", "local_y")}, hitIDs(result))
}

func TestSearchIndex_Search_Prefix(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	result, err := index.Search(context.Background(), SearchParams{Query: "glo", Limit: 10})
	require.NoError(t, err)
	assert.Contains(t, hitIDs(result), EpisodeDocID("li_podcast1", "local_y"))
}

func TestSearchIndex_Search_SortByTitle(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	result, err := index.Search(context.Background(), SearchParams{
		SortBy:    SortTitle,
		SortOrder: "asc",
		Limit:     10,
	})
	require.NoError(t, err)

	// Leading articles are ignored: "final empire" < "glow cloud" < "pilot" < "welcome..."
	assert.Equal(t, []string{
		"li_8f2a1c",
		EpisodeDocID("li_podcast1", "local_y"),
		EpisodeDocID("li_podcast1", "ep_remote1"),
		"li_podcast1",
	}, hitIDs(result))
}

func TestSearchIndex_Search_Facets(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	params := DefaultSearchParams()
	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)

	assert.ElementsMatch(t, []FacetCount{
		{Value: "episode", Count: 2},
		{Value: "book", Count: 1},
		{Value: "podcast", Count: 1},
	}, result.Facets.Types)
	assert.ElementsMatch(t, []FacetCount{
		{Value: "fantasy", Count: 1},
		{Value: "fiction", Count: 1},
		{Value: "comedy", Count: 1},
	}, result.Facets.Genres)
	assert.Equal(t, []FacetCount{{Value: "favorites", Count: 1}}, result.Facets.Tags)
}

func TestSearchIndex_Search_Pagination(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	ctx := context.Background()
	first, err := index.Search(ctx, SearchParams{SortBy: SortTitle, SortOrder: "asc", Limit: 2})
	require.NoError(t, err)
	second, err := index.Search(ctx, SearchParams{SortBy: SortTitle, SortOrder: "asc", Limit: 2, Offset: 2})
	require.NoError(t, err)

	assert.Equal(t, uint64(4), first.Total)
	assert.Len(t, first.Hits, 2)
	assert.Len(t, second.Hits, 2)
	assert.NotContains(t, hitIDs(second), first.Hits[0].ID)
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index, cleanup := setupFixtureIndex(t)
	defer cleanup()

	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Persistence(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "search-persist-*")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	index1, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)
	require.NoError(t, index1.IndexItem(loadFixture(t, "book_item.json")))
	require.NoError(t, index1.Close())

	index2, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)
	defer func() { _ = index2.Close() }()

	assert.False(t, index2.Fresh())

	result, err := index2.Search(context.Background(), SearchParams{Query: "Mistborn", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
}

func TestSearchIndex_MappingVersionChange(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "search-version-*")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	index1, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)
	require.NoError(t, index1.IndexItem(loadFixture(t, "book_item.json")))
	require.NoError(t, index1.Close())

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "items.version"), []byte("0"), 0o644))

	index2, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)
	defer func() { _ = index2.Close() }()

	assert.True(t, index2.Fresh())
	count, err := index2.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_LargeBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large batch test in short mode")
	}

	index, cleanup := setupTestIndex(t)
	defer cleanup()

	// Create 1000 documents to test chunking (batch size is 500)
	docs := make([]*SearchDocument, 1000)
	for i := range docs {
		docs[i] = &SearchDocument{
			ID:   fmt.Sprintf("li_%04d", i),
			Type: DocTypeBook,
			Name: fmt.Sprintf("Book Number %d", i),
		}
	}

	start := time.Now()
	require.NoError(t, index.IndexDocuments(docs))
	t.Logf("Indexed 1000 documents in %v", time.Since(start))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), count)
}
