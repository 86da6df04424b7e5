package media

func ptr[T any](v T) *T { return &v }

func localTrack(index int, start, duration float64, localID string) AudioTrack {
	return AudioTrack{
		Index:       index,
		StartOffset: start,
		Duration:    duration,
		Title:       "Track " + localID,
		IsLocal:     true,
		LocalFileID: ptr(localID),
	}
}

func newBook(tracks ...AudioTrack) *Book {
	b := &Book{
		Metadata:   BookMetadata{Title: "The Way of Kings"},
		Tags:       []string{},
		AudioFiles: []AudioFile{},
		Chapters:   []BookChapter{},
	}
	if tracks != nil {
		b.SetAudioTracks(tracks)
	}
	return b
}

func remoteEpisode(id string, index int) PodcastEpisode {
	return PodcastEpisode{
		ID:    id,
		Index: index,
		Title: ptr("Remote " + id),
		AudioFile: &AudioFile{
			Index:    index,
			Ino:      "ino-" + id,
			Metadata: FileMetadata{Filename: id + ".mp3", Ext: ".mp3", RelPath: id + ".mp3"},
		},
	}
}
