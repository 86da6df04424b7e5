package media

import (
	"testing"

	"github.com/listenupapp/listenup-shelf/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLibrary(t *testing.T) {
	lib, err := DecodeLibrary([]byte(`{
		"id": "lib_main",
		"name": "Audiobooks",
		"folders": [{"id": "fol_1", "fullPath": "/audiobooks"}],
		"icon": "database",
		"mediaType": "book",
		"settings": {"coverAspectRatio": 1}
	}`))
	require.NoError(t, err)
	assert.True(t, lib.IsBookLibrary())
	assert.False(t, lib.IsPodcastLibrary())
	require.NotNil(t, lib.FolderByID("fol_1"))
	assert.Nil(t, lib.FolderByID("fol_2"))

	// The media type is checked by whoever stores the library.
	video, err := DecodeLibrary([]byte(`{"id":"","mediaType":"video"}`))
	require.NoError(t, err)
	assert.Equal(t, MediaKind("video"), video.MediaType)

	tests := []struct {
		name     string
		doc      string
		contains string
	}{
		{name: "missing id", doc: `{"mediaType":"book"}`, contains: "id"},
		{name: "missing mediaType", doc: `{"id":"lib_1"}`, contains: "mediaType"},
		{name: "folder without id", doc: `{"id":"lib_1","mediaType":"book","folders":[{"fullPath":"/x"}]}`, contains: "folder: missing required field(s) id"},
		{name: "not an object", doc: `[]`, contains: "expected object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := DecodeLibrary([]byte(tt.doc))
			require.Error(t, err)
			assert.Nil(t, lib)
			assert.True(t, errors.Is(err, errors.ErrDecode), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLibrary_Folders(t *testing.T) {
	lib := &Library{ID: "lib_1", MediaType: KindPodcast}

	assert.True(t, lib.AddFolder(Folder{ID: "fol_1", FullPath: "/podcasts"}))
	assert.False(t, lib.AddFolder(Folder{ID: "fol_2", FullPath: "/podcasts/"}))
	assert.True(t, lib.AddFolder(Folder{ID: "fol_3", FullPath: "/more"}))
	require.Len(t, lib.Folders, 2)

	before := lib.Folders
	lib.RemoveFolder("fol_1")
	require.Len(t, lib.Folders, 1)
	assert.Equal(t, "fol_3", lib.Folders[0].ID)
	assert.Equal(t, "fol_1", before[0].ID)
}
