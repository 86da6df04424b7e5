// Package media models the items of a personal audio library (audiobooks and
// podcasts) and reconciles their track structure when local files come and go.
//
// Everything here is in-memory and synchronous. Items come in through Decode,
// which picks the Book or Podcast variant from the shape of the JSON rather
// than from a type field, and go back out through Encode without loss.
package media

import (
	"encoding/json"
	"strings"

	"github.com/listenupapp/listenup-shelf/internal/errors"
)

// LocalItemPrefix prefixes the id of items that only exist on this device.
const LocalItemPrefix = "local"

// LibraryItem is a single book or podcast in a library, together with the
// file-system and scan bookkeeping the server keeps for it.
// MediaType always agrees with the concrete type of Media.
type LibraryItem struct {
	ID           string        `json:"id"`
	Ino          string        `json:"ino"`
	LibraryID    string        `json:"libraryId"`
	FolderID     string        `json:"folderId"`
	Path         string        `json:"path"`
	RelPath      string        `json:"relPath"`
	MtimeMs      int64         `json:"mtimeMs"`
	CtimeMs      int64         `json:"ctimeMs"`
	BirthtimeMs  int64         `json:"birthtimeMs"`
	AddedAt      int64         `json:"addedAt"`
	UpdatedAt    int64         `json:"updatedAt"`
	LastScan     *int64        `json:"lastScan"`
	ScanVersion  *string       `json:"scanVersion"`
	IsMissing    bool          `json:"isMissing"`
	IsInvalid    bool          `json:"isInvalid"`
	MediaType    MediaKind     `json:"mediaType"`
	Media        Media         `json:"media"`
	LibraryFiles []LibraryFile `json:"libraryFiles"`
}

// UnmarshalJSON decodes an item, resolving Media by shape and rejecting a
// mediaType that disagrees with the resolved variant.
func (li *LibraryItem) UnmarshalJSON(data []byte) error {
	f, err := parseObject("library item", data)
	if err != nil {
		return err
	}
	if missing := f.missing("id", "mediaType", "media"); len(missing) > 0 {
		return decodeMissing("library item", missing...)
	}

	type plain LibraryItem
	aux := struct {
		*plain
		Media json.RawMessage `json:"media"`
	}{plain: (*plain)(li)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return asDecodeError("library item", err)
	}

	m, err := DecodeMedia(aux.Media)
	if err != nil {
		return err
	}
	if m.Kind() != li.MediaType {
		return decodeMismatch("library item media", m.Kind(), li.MediaType)
	}
	li.Media = m
	return nil
}

// Decode parses a library item document. On failure it returns a DecodeError
// and no item. Only missing keys and wrong value kinds fail; empty ids and
// negative offsets decode as given.
func Decode(data []byte) (*LibraryItem, error) {
	var item LibraryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, asDecodeError("library item", err)
	}
	return &item, nil
}

// Encode serializes the item. Derived values (millisecond offsets, chapter
// projections) are methods and never appear in the output.
func Encode(item *LibraryItem) ([]byte, error) {
	if item == nil {
		return nil, errors.Internalf("encode: nil library item")
	}
	if item.Media == nil {
		return nil, errors.Internalf("encode %s: item has no media", item.ID)
	}
	return json.Marshal(item)
}

// Clone returns a deep copy made by encoding and decoding the item.
func (li *LibraryItem) Clone() (*LibraryItem, error) {
	data, err := Encode(li)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// IsBook returns true if the item is an audiobook.
func (li *LibraryItem) IsBook() bool {
	return li.MediaType == KindBook
}

// IsPodcast returns true if the item is a podcast.
func (li *LibraryItem) IsPodcast() bool {
	return li.MediaType == KindPodcast
}

// IsLocal returns true for items that exist only on this device.
func (li *LibraryItem) IsLocal() bool {
	return strings.HasPrefix(li.ID, LocalItemPrefix)
}

// Title returns the media title, or "" when there is no media.
func (li *LibraryItem) Title() string {
	if li.Media == nil {
		return ""
	}
	return li.Media.GetMetadata().GetTitle()
}

// Book returns the media as a *Book.
func (li *LibraryItem) Book() (*Book, bool) {
	b, ok := li.Media.(*Book)
	return b, ok
}

// Podcast returns the media as a *Podcast.
func (li *LibraryItem) Podcast() (*Podcast, bool) {
	p, ok := li.Media.(*Podcast)
	return p, ok
}
