package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/listenup-shelf/internal/errors"
	"github.com/listenupapp/listenup-shelf/internal/search"
)

func fixturePath(name string) string {
	return filepath.Join("..", "..", "internal", "media", "testdata", name)
}

// runShelf executes the root command against dataDir and returns stdout.
func runShelf(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	base := []string{
		"--data", dataDir,
		"--env", "development",
		"--log-level", "error",
		"--env-file", filepath.Join(dataDir, "missing.env"),
	}

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(append(base, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func importFixtures(t *testing.T, dataDir string) {
	t.Helper()

	out, err := runShelf(t, dataDir, "import", fixturePath("book_item.json"), fixturePath("podcast_item.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported book li_8f2a1c")
	assert.Contains(t, out, "Imported podcast li_podcast1")
}

func TestImportAndList(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	out, err := runShelf(t, dataDir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "The Final Empire")
	assert.Contains(t, out, "Welcome to Night Vale")

	out, err = runShelf(t, dataDir, "list", "--type", "podcast", "--json")
	require.NoError(t, err)
	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "li_podcast1", items[0]["id"])
}

func TestImportAgainReportsUpdate(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	out, err := runShelf(t, dataDir, "import", fixturePath("book_item.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Updated book li_8f2a1c")
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	dataDir := t.TempDir()
	bad := filepath.Join(dataDir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id":"x"}`), 0o644))

	_, err := runShelf(t, dataDir, "import", bad)
	require.Error(t, err)
	assert.Equal(t, 65, exitCode(err))
}

func TestTrackRemoveRenumbersBook(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	out, err := runShelf(t, dataDir, "tracks", "li_8f2a1c")
	require.NoError(t, err)
	assert.Contains(t, out, "local_f1")
	assert.Contains(t, out, "local_f2")

	out, err = runShelf(t, dataDir, "track", "remove", "li_8f2a1c", "local_f1")
	require.NoError(t, err)
	assert.NotContains(t, out, "local_f1")
	assert.Contains(t, out, "local_f2")

	out, err = runShelf(t, dataDir, "--json", "tracks", "li_8f2a1c")
	require.NoError(t, err)
	var tracks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tracks))
	require.Len(t, tracks, 1)
	assert.EqualValues(t, 1, tracks[0]["index"])
	assert.EqualValues(t, 0, tracks[0]["startOffset"])
}

func TestTrackAddToPodcast(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	_, err := runShelf(t, dataDir, "track", "add", "li_podcast1", "/music/bonus.mp3",
		"--id", "local_bonus", "--duration", "90", "--title", "Bonus")
	require.NoError(t, err)

	out, err := runShelf(t, dataDir, "episodes", "li_podcast1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bonus")
	assert.Contains(t, out, "local_bonus")

	_, err = runShelf(t, dataDir, "track", "add", "li_podcast1", "/music/bonus.mp3", "--id", "local_bonus")
	require.Error(t, err)
	assert.Equal(t, 75, exitCode(err))
}

func TestTrackSyncFromFile(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	tracksFile := filepath.Join(dataDir, "tracks.json")
	require.NoError(t, os.WriteFile(tracksFile, []byte(`[
		{"index": 1, "startOffset": 0, "duration": 42.5, "title": "solo.mp3",
		 "contentUrl": "file:///music/solo.mp3", "mimeType": "audio/mpeg",
		 "metadata": null, "isLocal": true, "localFileId": "local_solo",
		 "serverIndex": null}
	]`), 0o644))

	_, err := runShelf(t, dataDir, "track", "sync", "li_8f2a1c", tracksFile)
	require.NoError(t, err)

	out, err := runShelf(t, dataDir, "--json", "tracks", "li_8f2a1c")
	require.NoError(t, err)
	var tracks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tracks))
	require.Len(t, tracks, 1)
	assert.Equal(t, "local_solo", tracks[0]["localFileId"])
}

func TestChaptersAndEpisodesRejectWrongKind(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	out, err := runShelf(t, dataDir, "chapters", "li_8f2a1c")
	require.NoError(t, err)
	assert.Contains(t, out, "Prologue")
	assert.Contains(t, out, "Chapter One")

	_, err = runShelf(t, dataDir, "chapters", "li_podcast1")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = runShelf(t, dataDir, "episodes", "li_8f2a1c")
	require.Error(t, err)
	assert.Equal(t, 65, exitCode(err))
}

func TestEpisodeNotesAsMarkdown(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	out, err := runShelf(t, dataDir, "episodes", "li_podcast1", "--notes")
	require.NoError(t, err)
	assert.Contains(t, out, "## Pilot")
	assert.Contains(t, out, "**bold**")
}

func TestExportRoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	exported := filepath.Join(dataDir, "out.json")
	_, err := runShelf(t, dataDir, "export", "li_podcast1", "--out", exported)
	require.NoError(t, err)

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "li_podcast1", doc["id"])
	assert.Equal(t, "podcast", doc["mediaType"])

	other := t.TempDir()
	out, err := runShelf(t, other, "import", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported podcast li_podcast1")
}

func TestExportAll(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	outDir := filepath.Join(t.TempDir(), "dump")
	out, err := runShelf(t, dataDir, "export", "--all", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 items")

	for _, name := range []string{"li_8f2a1c.json", "li_podcast1.json"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestSearch(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	out, err := runShelf(t, dataDir, "--json", "search", "Sanderson")
	require.NoError(t, err)

	var result search.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "li_8f2a1c", result.Hits[0].ItemID)

	out, err = runShelf(t, dataDir, "search", "--type", "episode", "--sort", "title", "--order", "asc")
	require.NoError(t, err)
	assert.Contains(t, out, "Glow Cloud")
	assert.Contains(t, out, "Pilot")
	assert.NotContains(t, out, "The Final Empire")
}

func TestSearchDisabled(t *testing.T) {
	dataDir := t.TempDir()

	_, err := runShelf(t, dataDir, "--no-search", "search", "anything")
	require.Error(t, err)
	assert.Equal(t, 65, exitCode(err))
}

func TestDeleteAndMissingItem(t *testing.T) {
	dataDir := t.TempDir()
	importFixtures(t, dataDir)

	_, err := runShelf(t, dataDir, "delete", "li_8f2a1c")
	require.NoError(t, err)

	_, err = runShelf(t, dataDir, "show", "li_8f2a1c")
	require.Error(t, err)
	assert.Equal(t, 66, exitCode(err))
}

func TestLibraries(t *testing.T) {
	dataDir := t.TempDir()

	out, err := runShelf(t, dataDir, "libraries", "create", "Podcasts", "--type", "podcast", "--folder", "/podcasts")
	require.NoError(t, err)
	assert.Contains(t, out, "Podcasts")
	assert.Contains(t, out, "/podcasts")

	out, err = runShelf(t, dataDir, "--json", "libraries")
	require.NoError(t, err)
	var libs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &libs))
	require.Len(t, libs, 1)
	assert.Equal(t, "podcast", libs[0]["mediaType"])
}

func TestDataDirectoryInUse(t *testing.T) {
	dataDir := t.TempDir()

	lock := flock.New(filepath.Join(dataDir, ".lock"))
	ok, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer func() { _ = lock.Unlock() }()

	_, err = runShelf(t, dataDir, "list")
	require.Error(t, err)
	assert.Equal(t, 75, exitCode(err))
	assert.True(t, strings.Contains(err.Error(), "in use"))
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00.000"},
		{600.5, "10:00.500"},
		{1800.25, "30:00.250"},
		{3725.004, "1:02:05.004"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSeconds(tt.seconds))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 66, exitCode(domainerrors.NotFound("gone")))
	assert.Equal(t, 65, exitCode(domainerrors.Decode("bad")))
	assert.Equal(t, 1, exitCode(domainerrors.Internalf("boom")))
}
