package media

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// LocalEpisodePrefix prefixes the id of every episode synthesized for a local track.
const LocalEpisodePrefix = "local_"

// PodcastEpisode is one episode of a podcast. A remote episode carries an
// AudioFile; an episode downloaded to this device carries an AudioTrack.
type PodcastEpisode struct {
	ID          string      `json:"id"`
	Index       int         `json:"index"`
	Episode     *string     `json:"episode"`
	EpisodeType *string     `json:"episodeType"`
	Title       *string     `json:"title"`
	Subtitle    *string     `json:"subtitle"`
	Description *string     `json:"description"`
	AudioFile   *AudioFile  `json:"audioFile"`
	AudioTrack  *AudioTrack `json:"audioTrack"`
}

// LocalFileID returns the local file id of the episode's track, if any.
func (e *PodcastEpisode) LocalFileID() (string, bool) {
	if e.AudioTrack == nil {
		return "", false
	}
	return e.AudioTrack.LocalID()
}

// IsLocal reports whether the episode is backed by a device-local file.
func (e *PodcastEpisode) IsLocal() bool {
	_, ok := e.LocalFileID()
	return ok
}

// DisplayTitle returns the episode title, falling back to the id.
func (e *PodcastEpisode) DisplayTitle() string {
	if e.Title != nil && *e.Title != "" {
		return *e.Title
	}
	return e.ID
}

// newLocalEpisode wraps a local track in an episode. The caller picks the index.
// A track without a local file id gets the bare prefix as its episode id.
func newLocalEpisode(track AudioTrack, index int) PodcastEpisode {
	localID, _ := track.LocalID()
	title := track.Title
	return PodcastEpisode{
		ID:         LocalEpisodePrefix + localID,
		Index:      index,
		Title:      &title,
		AudioTrack: &track,
	}
}

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// DescriptionMarkdown returns the show notes as Markdown. Feed descriptions
// are usually HTML; plain text passes through unchanged.
func (e *PodcastEpisode) DescriptionMarkdown() string {
	if e.Description == nil {
		return ""
	}
	s := *e.Description
	if s == "" || !htmlTagPattern.MatchString(strings.ToLower(s)) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}
