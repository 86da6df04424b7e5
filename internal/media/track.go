package media

import "math"

// AudioTrack is one playable audio segment of a library item.
//
// Index is 1-based. StartOffset and Duration are seconds. LocalFileID is set
// only when the audio comes from a file on this device; ServerIndex keeps the
// track's index on the origin server when it differs from Index.
type AudioTrack struct {
	Index            int               `json:"index"`
	StartOffset      float64           `json:"startOffset"`
	Duration         float64           `json:"duration"`
	Title            string            `json:"title"`
	ContentURL       string            `json:"contentUrl"`
	MimeType         string            `json:"mimeType"`
	Metadata         *FileMetadata     `json:"metadata"`
	IsLocal          bool              `json:"isLocal"`
	LocalFileID      *string           `json:"localFileId"`
	AudioProbeResult *AudioProbeResult `json:"audioProbeResult"`
	ServerIndex      *int              `json:"serverIndex"`
}

// LocalID returns the local file id and whether the track has one.
func (t *AudioTrack) LocalID() (string, bool) {
	if t.LocalFileID == nil {
		return "", false
	}
	return *t.LocalFileID, true
}

// HasLocalID reports whether the track carries exactly the given local file id.
func (t *AudioTrack) HasLocalID(localFileID string) bool {
	return t.LocalFileID != nil && *t.LocalFileID == localFileID
}

// StartOffsetMs returns the start offset in milliseconds.
func (t *AudioTrack) StartOffsetMs() int64 {
	return secondsToMs(t.StartOffset)
}

// DurationMs returns the duration in milliseconds.
func (t *AudioTrack) DurationMs() int64 {
	return secondsToMs(t.Duration)
}

// EndOffsetMs returns StartOffsetMs + DurationMs.
func (t *AudioTrack) EndOffsetMs() int64 {
	return t.StartOffsetMs() + t.DurationMs()
}

// RelPath returns the file's path relative to its library folder, or "".
func (t *AudioTrack) RelPath() string {
	if t.Metadata == nil {
		return ""
	}
	return t.Metadata.RelPath
}

// BookChapter projects the track onto a chapter spanning the same time range.
// It neither reads nor changes the owning Book's chapters.
func (t *AudioTrack) BookChapter() BookChapter {
	title := t.Title
	return BookChapter{
		ID:    t.Index + 1,
		Start: t.StartOffset,
		End:   t.StartOffset + t.Duration,
		Title: &title,
	}
}

// Contains reports whether the position (seconds from item start) falls
// inside this track. The end bound is exclusive.
func (t *AudioTrack) Contains(position float64) bool {
	return position >= t.StartOffset && position < t.StartOffset+t.Duration
}

func secondsToMs(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}

// sumDurations totals track durations in seconds.
func sumDurations(tracks []AudioTrack) float64 {
	var total float64
	for i := range tracks {
		total += tracks[i].Duration
	}
	return total
}
