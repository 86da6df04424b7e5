package media

import "encoding/json"

// Media is the playable content of a library item: a *Book or a *Podcast.
//
// The four track operations are pure transformations of the value's own
// state. Each builds new slices and assigns them back, so slices previously
// returned by AudioTracks are never modified. Callers serialize access per
// library item; no locking happens here.
type Media interface {
	Kind() MediaKind
	GetMetadata() Metadata
	GetCoverPath() *string

	// AudioTracks returns the playable tracks in order.
	AudioTracks() []AudioTrack
	// SetAudioTracks replaces the full set of tracks.
	SetAudioTracks(tracks []AudioTrack)
	// AddAudioTrack adds a single track.
	AddAudioTrack(track AudioTrack)
	// RemoveAudioTrack drops whatever is backed by the given local file.
	RemoveAudioTrack(localFileID string)
}

var (
	_ Media = (*Book)(nil)
	_ Media = (*Podcast)(nil)
)

// Required keys per variant, checked in this order: Book, then Podcast.
var (
	mediaKeys   = []string{"metadata", "coverPath"}
	bookKeys    = []string{"tags", "audioFiles", "chapters"}
	podcastKeys = []string{"tags", "episodes", "autoDownloadEpisodes"}
)

// mediaShape reports which variant a media object satisfies, trying Book
// before Podcast. When neither matches, missing names the keys absent for
// the variant the payload most resembles.
func mediaShape(f fields) (kind MediaKind, missing []string) {
	if f.has(mediaKeys...) && f.has(bookKeys...) {
		return KindBook, nil
	}
	if f.has(mediaKeys...) && f.has(podcastKeys...) {
		return KindPodcast, nil
	}
	if f.hasAny("episodes", "autoDownloadEpisodes") {
		return "", f.missing(append(mediaKeys, podcastKeys...)...)
	}
	return "", f.missing(append(mediaKeys, bookKeys...)...)
}

// DecodeMedia resolves a media object to *Book or *Podcast by shape and
// decodes it. Unknown members are ignored.
func DecodeMedia(raw []byte) (Media, error) {
	f, err := parseObject("media", raw)
	if err != nil {
		return nil, err
	}

	kind, missing := mediaShape(f)
	if kind == "" {
		return nil, decodeMissing("media", missing...)
	}

	if _, err := decodeMetadata(f["metadata"], kind); err != nil {
		return nil, err
	}

	var m Media
	if kind == KindPodcast {
		m = &Podcast{}
	} else {
		m = &Book{}
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, asDecodeError("media", err)
	}
	return m, nil
}
