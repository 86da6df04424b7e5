package media

import (
	"encoding/json"
	"strings"
)

// MediaKind tags which Media variant a library item carries.
type MediaKind string

// Media kinds as they appear on the wire in mediaType.
const (
	KindBook    MediaKind = "book"
	KindPodcast MediaKind = "podcast"
)

// Metadata is the title-bearing descriptor of a Media value.
// Implemented by *BookMetadata and *PodcastMetadata.
type Metadata interface {
	GetTitle() string
	Kind() MediaKind
}

// BookMetadata describes an audiobook.
//
// AuthorName, AuthorNameLF, NarratorName and SeriesName are display fields
// derived from the structured ones; see RefreshDisplayNames.
type BookMetadata struct {
	Title         string   `json:"title"`
	Subtitle      *string  `json:"subtitle"`
	Authors       []Author `json:"authors"`
	Narrators     []string `json:"narrators"`
	Genres        []string `json:"genres"`
	PublishedYear *string  `json:"publishedYear"`
	PublishedDate *string  `json:"publishedDate"`
	Publisher     *string  `json:"publisher"`
	Description   *string  `json:"description"`
	ISBN          *string  `json:"isbn"`
	ASIN          *string  `json:"asin"`
	Language      *string  `json:"language"`
	Explicit      bool     `json:"explicit"`
	AuthorName    *string  `json:"authorName"`
	AuthorNameLF  *string  `json:"authorNameLF"`
	NarratorName  *string  `json:"narratorName"`
	SeriesName    *string  `json:"seriesName"`
}

// GetTitle implements Metadata.
func (m *BookMetadata) GetTitle() string { return m.Title }

// Kind implements Metadata.
func (m *BookMetadata) Kind() MediaKind { return KindBook }

// PrimaryAuthor returns the first author's name, or empty string.
func (m *BookMetadata) PrimaryAuthor() string {
	if len(m.Authors) > 0 {
		return m.Authors[0].Name
	}
	return ""
}

// RefreshDisplayNames recomputes the denormalized author and narrator
// display fields from Authors and Narrators. SeriesName is left untouched
// because series membership is not part of this record.
func (m *BookMetadata) RefreshDisplayNames() {
	names := make([]string, 0, len(m.Authors))
	namesLF := make([]string, 0, len(m.Authors))
	for _, a := range m.Authors {
		names = append(names, a.Name)
		namesLF = append(namesLF, lastFirst(a.Name))
	}

	m.AuthorName = joinedOrNil(names)
	m.AuthorNameLF = joinedOrNil(namesLF)
	m.NarratorName = joinedOrNil(m.Narrators)
}

// lastFirst turns "Brandon Sanderson" into "Sanderson, Brandon".
// Single-word names are returned as is.
func lastFirst(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return strings.TrimSpace(name)
	}
	last := parts[len(parts)-1]
	return last + ", " + strings.Join(parts[:len(parts)-1], " ")
}

func joinedOrNil(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	s := strings.Join(values, ", ")
	return &s
}

// PodcastMetadata describes a podcast show.
type PodcastMetadata struct {
	Title   string   `json:"title"`
	Author  *string  `json:"author"`
	FeedURL *string  `json:"feedUrl"`
	Genres  []string `json:"genres"`
}

// GetTitle implements Metadata.
func (m *PodcastMetadata) GetTitle() string { return m.Title }

// Kind implements Metadata.
func (m *PodcastMetadata) Kind() MediaKind { return KindPodcast }

// Keys that only one metadata variant carries. Shared keys (title, genres,
// description, language, explicit) show up in real podcast payloads too, so
// they never decide the shape on their own.
var (
	bookMetadataKeys = []string{
		"subtitle", "authors", "narrators", "publishedYear", "publishedDate",
		"publisher", "isbn", "asin", "authorName", "authorNameLF",
		"narratorName", "seriesName",
	}
	podcastMetadataKeys = []string{"author", "feedUrl"}
)

// metadataShape inspects the members of a metadata object and reports which
// variant it looks like. Book is checked before Podcast. ok is false when
// the payload carries no distinguishing keys.
func metadataShape(f fields) (kind MediaKind, ok bool) {
	switch {
	case f.hasAny(bookMetadataKeys...):
		return KindBook, true
	case f.hasAny(podcastMetadataKeys...):
		return KindPodcast, true
	default:
		return "", false
	}
}

// DecodeMetadata resolves a metadata object to its variant by shape alone.
// A payload with only shared keys resolves to BookMetadata.
func DecodeMetadata(raw []byte) (Metadata, error) {
	return decodeMetadata(raw, "")
}

// decodeMetadata decodes raw as metadata. hint is the kind implied by the
// enclosing Media; when set, an unambiguous shape for the other kind fails.
func decodeMetadata(raw json.RawMessage, hint MediaKind) (Metadata, error) {
	f, err := parseObject("metadata", raw)
	if err != nil {
		return nil, err
	}
	if !f.has("title") || f.isNull("title") {
		return nil, decodeMissing("metadata", "title")
	}

	kind, ok := metadataShape(f)
	switch {
	case hint != "" && ok && kind != hint:
		return nil, decodeMismatch("metadata", kind, hint)
	case hint != "":
		kind = hint
	case !ok:
		kind = KindBook
	}

	var m Metadata
	if kind == KindPodcast {
		m = &PodcastMetadata{}
	} else {
		m = &BookMetadata{}
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, asDecodeError("metadata", err)
	}
	return m, nil
}
