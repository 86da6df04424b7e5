package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/listenupapp/listenup-shelf/internal/search"
	"github.com/listenupapp/listenup-shelf/internal/store"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store   *store.Store
	index   *search.SearchIndex
	search  *SearchService
	library *LibraryService
}

// setupTestEnv creates a store and search index in a temp dir and wires the
// services over them.
func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	st, err := store.New(filepath.Join(tmpDir, "db"), nil)
	require.NoError(t, err)

	index, err := search.NewSearchIndex(search.Options{DataPath: filepath.Join(tmpDir, "search")})
	require.NoError(t, err)

	searchSvc := NewSearchService(index, st, nil)
	librarySvc := NewLibraryService(st, searchSvc, nil)
	librarySvc.now = func() time.Time { return fixedNow }

	cleanup := func() {
		_ = index.Close()
		_ = st.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &testEnv{store: st, index: index, search: searchSvc, library: librarySvc}, cleanup
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "media", "testdata", name))
	require.NoError(t, err)
	return data
}

// importFixtures loads the book and podcast fixtures through the service.
func (e *testEnv) importFixtures(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	for _, name := range []string{"book_item.json", "podcast_item.json"} {
		_, created, err := e.library.ImportItem(ctx, readFixture(t, name))
		require.NoError(t, err)
		require.True(t, created)
	}
}

func (e *testEnv) searchIDs(t *testing.T, params search.SearchParams) []string {
	t.Helper()

	if params.Limit == 0 {
		params.Limit = 50
	}
	result, err := e.search.Search(context.Background(), params)
	require.NoError(t, err)

	ids := make([]string, 0, len(result.Hits))
	for _, h := range result.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}
