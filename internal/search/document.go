// Package search provides full-text search over library items using Bleve.
// Books and podcasts are indexed as one document each, and every podcast
// episode gets its own document so that show notes are searchable.
package search

import (
	"strconv"

	"github.com/listenupapp/listenup-shelf/internal/media"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeBook    DocType = "book"
	DocTypePodcast DocType = "podcast"
	DocTypeEpisode DocType = "episode"
)

// SearchDocument is the unified document structure for the Bleve index.
// Author, narrator and series display names are denormalized into book
// documents; the podcast title is copied into its episode documents.
type SearchDocument struct {
	ID        string  `json:"id"`
	Type      DocType `json:"type"`
	ItemID    string  `json:"item_id"`
	LibraryID string  `json:"library_id"`

	Name        string `json:"name"`
	SortName    string `json:"sort_name"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Narrator    string `json:"narrator,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	SeriesName  string `json:"series_name,omitempty"`
	ShowName    string `json:"show_name,omitempty"` // Episodes only
	FeedURL     string `json:"feed_url,omitempty"`

	Genres []string `json:"genres,omitempty"` // Slugified
	Tags   []string `json:"tags,omitempty"`   // Slugified

	Local       bool  `json:"local"`
	Duration    int64 `json:"duration,omitempty"` // Milliseconds
	PublishYear int   `json:"publish_year,omitempty"`

	AddedAt   int64 `json:"added_at"`   // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve would otherwise use the Go struct field names.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       string(d.Type),
		"item_id":    d.ItemID,
		"library_id": d.LibraryID,
		"name":       d.Name,
		"sort_name":  d.SortName,
		"local":      d.Local,
		"added_at":   d.AddedAt,
		"updated_at": d.UpdatedAt,
	}

	optional := map[string]string{
		"subtitle":    d.Subtitle,
		"description": d.Description,
		"author":      d.Author,
		"narrator":    d.Narrator,
		"publisher":   d.Publisher,
		"series_name": d.SeriesName,
		"show_name":   d.ShowName,
		"feed_url":    d.FeedURL,
	}
	for k, v := range optional {
		if v != "" {
			m[k] = v
		}
	}

	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.Duration > 0 {
		m["duration"] = d.Duration
	}
	if d.PublishYear > 0 {
		m["publish_year"] = d.PublishYear
	}

	return m
}

// EpisodeDocID is the document id of a podcast episode.
func EpisodeDocID(itemID, episodeID string) string {
	return itemID + "/" + episodeID
}

// ItemDocuments converts a library item into its search documents: one for
// the item and, for podcasts, one per episode.
func ItemDocuments(item *media.LibraryItem) []*SearchDocument {
	switch m := item.Media.(type) {
	case *media.Book:
		return []*SearchDocument{bookDocument(item, m)}
	case *media.Podcast:
		docs := make([]*SearchDocument, 0, 1+len(m.Episodes))
		docs = append(docs, podcastDocument(item, m))
		for i := range m.Episodes {
			docs = append(docs, episodeDocument(item, m, &m.Episodes[i]))
		}
		return docs
	default:
		return nil
	}
}

func baseDocument(item *media.LibraryItem, id string, t DocType, name string) *SearchDocument {
	return &SearchDocument{
		ID:        id,
		Type:      t,
		ItemID:    item.ID,
		LibraryID: item.LibraryID,
		Name:      name,
		SortName:  SortKey(name),
		Local:     item.IsLocal(),
		AddedAt:   item.AddedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func bookDocument(item *media.LibraryItem, b *media.Book) *SearchDocument {
	md := &b.Metadata
	doc := baseDocument(item, item.ID, DocTypeBook, md.Title)
	doc.Subtitle = deref(md.Subtitle)
	doc.Description = deref(md.Description)
	doc.Author = deref(md.AuthorName)
	if doc.Author == "" {
		doc.Author = md.PrimaryAuthor()
	}
	doc.Narrator = deref(md.NarratorName)
	doc.Publisher = deref(md.Publisher)
	doc.SeriesName = deref(md.SeriesName)
	doc.Genres = slugs(md.Genres)
	doc.Tags = slugs(b.Tags)
	doc.Duration = b.DurationMs()
	doc.Local = doc.Local || b.HasLocalTracks()
	if md.PublishedYear != nil {
		if year, err := strconv.Atoi(*md.PublishedYear); err == nil {
			doc.PublishYear = year
		}
	}
	return doc
}

func podcastDocument(item *media.LibraryItem, p *media.Podcast) *SearchDocument {
	md := &p.Metadata
	doc := baseDocument(item, item.ID, DocTypePodcast, md.Title)
	doc.Author = deref(md.Author)
	doc.FeedURL = deref(md.FeedURL)
	doc.Genres = slugs(md.Genres)
	doc.Tags = slugs(p.Tags)
	doc.Local = doc.Local || len(p.LocalEpisodes()) > 0
	return doc
}

func episodeDocument(item *media.LibraryItem, p *media.Podcast, ep *media.PodcastEpisode) *SearchDocument {
	doc := baseDocument(item, EpisodeDocID(item.ID, ep.ID), DocTypeEpisode, ep.DisplayTitle())
	doc.Subtitle = deref(ep.Subtitle)
	doc.Description = ep.DescriptionMarkdown()
	doc.Author = deref(p.Metadata.Author)
	doc.ShowName = p.Metadata.Title
	doc.Local = ep.IsLocal()
	if ep.AudioTrack != nil {
		doc.Duration = ep.AudioTrack.DurationMs()
	}
	return doc
}

func slugs(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := Slugify(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
