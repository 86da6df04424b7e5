package media

// Author is a book author reference carried inside BookMetadata.
type Author struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CoverPath *string `json:"coverPath"`
}

// FileMetadata describes where a file lives relative to its library folder.
type FileMetadata struct {
	Filename string `json:"filename"`
	Ext      string `json:"ext"`
	Path     string `json:"path"`
	RelPath  string `json:"relPath"`
}

// LibraryFile is any file that belongs to a library item (audio, cover, nfo...).
type LibraryFile struct {
	Ino      string       `json:"ino"`
	Metadata FileMetadata `json:"metadata"`
}

// AudioFile is a server-side audio file. Index is assigned by the server.
type AudioFile struct {
	Index    int          `json:"index"`
	Ino      string       `json:"ino"`
	Metadata FileMetadata `json:"metadata"`
}

// BookChapter is a chapter marker. Start and End are seconds from the item start.
type BookChapter struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Title *string `json:"title"`
}

// Duration returns the chapter length in seconds.
func (c BookChapter) Duration() float64 {
	return c.End - c.Start
}

// AudioProbeResult is the ffprobe summary recorded for a local file when it was added.
type AudioProbeResult struct {
	Format        string              `json:"format"`
	Duration      float64             `json:"duration"`
	Size          int64               `json:"size"`
	BitRate       int64               `json:"bitRate"`
	Codec         string              `json:"codec"`
	Channels      int                 `json:"channels"`
	ChannelLayout string              `json:"channelLayout"`
	SampleRate    int                 `json:"sampleRate"`
	Language      *string             `json:"language"`
	Chapters      []AudioProbeChapter `json:"chapters"`
	Tags          map[string]string   `json:"tags"`
}

// AudioProbeChapter is a chapter embedded in the probed audio container.
type AudioProbeChapter struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Title string  `json:"title"`
}
