package media

import (
	"encoding/json"
	"path/filepath"
	"slices"
)

// Library is a named collection of folders holding items of one media kind.
type Library struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Folders   []Folder  `json:"folders"`
	Icon      string    `json:"icon"`
	MediaType MediaKind `json:"mediaType"`
}

// Folder is a library root on disk.
type Folder struct {
	ID       string `json:"id"`
	FullPath string `json:"fullPath"`
}

// IsBookLibrary returns true if this library holds audiobooks.
func (l *Library) IsBookLibrary() bool {
	return l.MediaType == KindBook
}

// IsPodcastLibrary returns true if this library holds podcasts.
func (l *Library) IsPodcastLibrary() bool {
	return l.MediaType == KindPodcast
}

// FolderByID returns the folder with the given id, or nil.
func (l *Library) FolderByID(id string) *Folder {
	for i := range l.Folders {
		if l.Folders[i].ID == id {
			return &l.Folders[i]
		}
	}
	return nil
}

// AddFolder appends a folder unless one with the same cleaned path exists.
// Returns false if the folder was a duplicate.
func (l *Library) AddFolder(f Folder) bool {
	clean := filepath.Clean(f.FullPath)
	if slices.ContainsFunc(l.Folders, func(existing Folder) bool {
		return filepath.Clean(existing.FullPath) == clean
	}) {
		return false
	}
	l.Folders = append(slices.Clone(l.Folders), f)
	return true
}

// RemoveFolder drops the folder with the given id.
func (l *Library) RemoveFolder(id string) {
	l.Folders = slices.DeleteFunc(slices.Clone(l.Folders), func(f Folder) bool {
		return f.ID == id
	})
}

// UnmarshalJSON decodes a folder, requiring its id key.
func (f *Folder) UnmarshalJSON(data []byte) error {
	obj, err := parseObject("folder", data)
	if err != nil {
		return err
	}
	if missing := obj.missing("id"); len(missing) > 0 {
		return decodeMissing("folder", missing...)
	}
	type plain Folder
	if err := json.Unmarshal(data, (*plain)(f)); err != nil {
		return asDecodeError("folder", err)
	}
	return nil
}

// DecodeLibrary decodes a library descriptor. The media type is taken as
// given; callers that store libraries check it.
func DecodeLibrary(data []byte) (*Library, error) {
	f, err := parseObject("library", data)
	if err != nil {
		return nil, err
	}
	if missing := f.missing("id", "mediaType"); len(missing) > 0 {
		return nil, decodeMissing("library", missing...)
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, asDecodeError("library", err)
	}
	return &lib, nil
}
