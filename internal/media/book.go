package media

import (
	"slices"
	"sort"
)

// Book is an audiobook. Tracks is kept nil when the payload had no tracks
// (null on the wire) and empty when it had an empty list.
type Book struct {
	Metadata   BookMetadata  `json:"metadata"`
	CoverPath  *string       `json:"coverPath"`
	Tags       []string      `json:"tags"`
	AudioFiles []AudioFile   `json:"audioFiles"`
	Chapters   []BookChapter `json:"chapters"`
	Tracks     []AudioTrack  `json:"tracks"`
	Size       *int64        `json:"size"`
	Duration   *float64      `json:"duration"`
}

// Kind implements Media.
func (b *Book) Kind() MediaKind { return KindBook }

// GetMetadata implements Media.
func (b *Book) GetMetadata() Metadata { return &b.Metadata }

// GetCoverPath implements Media.
func (b *Book) GetCoverPath() *string { return b.CoverPath }

// AudioTracks returns a copy of the book's tracks, empty when unset.
func (b *Book) AudioTracks() []AudioTrack {
	if b.Tracks == nil {
		return []AudioTrack{}
	}
	return slices.Clone(b.Tracks)
}

// SetAudioTracks stores tracks as given and recomputes Duration.
// Index and StartOffset are not touched; the caller supplies them already
// consistent.
func (b *Book) SetAudioTracks(tracks []AudioTrack) {
	b.Tracks = slices.Clone(tracks)
	b.setDuration(sumDurations(b.Tracks))
}

// AddAudioTrack appends track and recomputes Duration. Index and StartOffset
// of every track are left as given.
func (b *Book) AddAudioTrack(track AudioTrack) {
	tracks := make([]AudioTrack, 0, len(b.Tracks)+1)
	tracks = append(tracks, b.Tracks...)
	b.Tracks = append(tracks, track)
	b.setDuration(sumDurations(b.Tracks))
}

// RemoveAudioTrack drops every track backed by localFileID, then renumbers the
// survivors 1..n in ascending Index order with contiguous start offsets and
// recomputes Duration. Renumbering happens even when nothing matched.
//
// Duplicate ids are all removed, not just the first; lookups such as
// FindTrackByLocalFileID are the ones that take the first match.
func (b *Book) RemoveAudioTrack(localFileID string) {
	if b.Tracks == nil {
		b.setDuration(0)
		return
	}

	kept := make([]AudioTrack, 0, len(b.Tracks))
	for _, t := range b.Tracks {
		if !t.HasLocalID(localFileID) {
			kept = append(kept, t)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Index < kept[j].Index
	})

	var offset float64
	for i := range kept {
		kept[i].Index = i + 1
		kept[i].StartOffset = offset
		offset += kept[i].Duration
	}

	b.Tracks = kept
	b.setDuration(offset)
}

func (b *Book) setDuration(seconds float64) {
	b.Duration = &seconds
}

// TotalDuration returns Duration in seconds, or 0 if unset.
func (b *Book) TotalDuration() float64 {
	if b.Duration == nil {
		return 0
	}
	return *b.Duration
}

// DurationMs returns the total duration in milliseconds.
func (b *Book) DurationMs() int64 {
	return secondsToMs(b.TotalDuration())
}

// FindTrackByLocalFileID returns the first track backed by localFileID.
func (b *Book) FindTrackByLocalFileID(localFileID string) (AudioTrack, bool) {
	for _, t := range b.Tracks {
		if t.HasLocalID(localFileID) {
			return t, true
		}
	}
	return AudioTrack{}, false
}

// TrackAt returns the track playing at position seconds from the start.
// A position at or past the end maps to the last track.
func (b *Book) TrackAt(position float64) (AudioTrack, bool) {
	if len(b.Tracks) == 0 || position < 0 {
		return AudioTrack{}, false
	}
	for _, t := range b.Tracks {
		if t.Contains(position) {
			return t, true
		}
	}
	last := b.Tracks[len(b.Tracks)-1]
	if position >= last.StartOffset {
		return last, true
	}
	return AudioTrack{}, false
}

// DerivedChapters returns the stored chapters when there are any, otherwise
// one chapter per track.
func (b *Book) DerivedChapters() []BookChapter {
	if len(b.Chapters) > 0 {
		return slices.Clone(b.Chapters)
	}
	chapters := make([]BookChapter, 0, len(b.Tracks))
	for i := range b.Tracks {
		chapters = append(chapters, b.Tracks[i].BookChapter())
	}
	return chapters
}

// LocalFileIDs returns the local file ids of all tracks that have one, in order.
func (b *Book) LocalFileIDs() []string {
	return localIDs(b.Tracks)
}

// HasLocalTracks reports whether any track is backed by a device-local file.
func (b *Book) HasLocalTracks() bool {
	return slices.ContainsFunc(b.Tracks, func(t AudioTrack) bool { return t.LocalFileID != nil })
}

func localIDs(tracks []AudioTrack) []string {
	ids := make([]string, 0, len(tracks))
	for i := range tracks {
		if id, ok := tracks[i].LocalID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
