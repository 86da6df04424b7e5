package media

import "slices"

// Podcast is a show whose episodes may be remote (AudioFile) or downloaded to
// this device (AudioTrack).
type Podcast struct {
	Metadata             PodcastMetadata  `json:"metadata"`
	CoverPath            *string          `json:"coverPath"`
	Tags                 []string         `json:"tags"`
	Episodes             []PodcastEpisode `json:"episodes"`
	AutoDownloadEpisodes bool             `json:"autoDownloadEpisodes"`
}

// Kind implements Media.
func (p *Podcast) Kind() MediaKind { return KindPodcast }

// GetMetadata implements Media.
func (p *Podcast) GetMetadata() Metadata { return &p.Metadata }

// GetCoverPath implements Media.
func (p *Podcast) GetCoverPath() *string { return p.CoverPath }

// AudioTracks returns the track of every episode that has one, in episode order.
func (p *Podcast) AudioTracks() []AudioTrack {
	tracks := make([]AudioTrack, 0, len(p.Episodes))
	for _, ep := range p.Episodes {
		if ep.AudioTrack != nil {
			tracks = append(tracks, *ep.AudioTrack)
		}
	}
	return tracks
}

// SetAudioTracks reconciles local episodes with tracks. A local episode whose
// file is no longer among tracks is dropped; a track with no local episode
// gains one appended at the end. Remote episodes are always kept, and tracks
// without a local file id are ignored.
func (p *Podcast) SetAudioTracks(tracks []AudioTrack) {
	incoming := make(map[string]bool, len(tracks))
	for i := range tracks {
		if id, ok := tracks[i].LocalID(); ok {
			incoming[id] = true
		}
	}

	episodes := make([]PodcastEpisode, 0, len(p.Episodes)+len(tracks))
	present := make(map[string]bool, len(p.Episodes))
	for _, ep := range p.Episodes {
		id, local := ep.LocalFileID()
		if local && !incoming[id] {
			continue
		}
		episodes = append(episodes, ep)
		if local {
			present[id] = true
		}
	}

	for _, t := range tracks {
		id, ok := t.LocalID()
		if !ok || present[id] {
			continue
		}
		episodes = append(episodes, newLocalEpisode(t, len(episodes)+1))
		present[id] = true
	}

	p.Episodes = episodes
}

// AddAudioTrack appends a new local episode for track. It does not check for
// an existing episode with the same local file.
func (p *Podcast) AddAudioTrack(track AudioTrack) {
	episodes := make([]PodcastEpisode, 0, len(p.Episodes)+1)
	episodes = append(episodes, p.Episodes...)
	p.Episodes = append(episodes, newLocalEpisode(track, len(episodes)+1))
}

// RemoveAudioTrack drops every episode whose track is backed by localFileID.
// Remaining episode indexes are not renumbered.
func (p *Podcast) RemoveAudioTrack(localFileID string) {
	p.Episodes = slices.DeleteFunc(slices.Clone(p.Episodes), func(ep PodcastEpisode) bool {
		return ep.AudioTrack != nil && ep.AudioTrack.HasLocalID(localFileID)
	})
}

// EpisodeByID returns the episode with the given id, or nil.
func (p *Podcast) EpisodeByID(id string) *PodcastEpisode {
	for i := range p.Episodes {
		if p.Episodes[i].ID == id {
			return &p.Episodes[i]
		}
	}
	return nil
}

// LocalEpisodes returns the episodes backed by local files.
func (p *Podcast) LocalEpisodes() []PodcastEpisode {
	var out []PodcastEpisode
	for _, ep := range p.Episodes {
		if ep.IsLocal() {
			out = append(out, ep)
		}
	}
	return out
}

// LocalFileIDs returns the local file ids of all local episodes, in order.
func (p *Podcast) LocalFileIDs() []string {
	return localIDs(p.AudioTracks())
}
