package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioTrack_Milliseconds(t *testing.T) {
	tests := []struct {
		name      string
		start     float64
		duration  float64
		wantStart int64
		wantDur   int64
		wantEnd   int64
	}{
		{name: "whole seconds", start: 10, duration: 5, wantStart: 10000, wantDur: 5000, wantEnd: 15000},
		{name: "fractional", start: 1.5, duration: 0.25, wantStart: 1500, wantDur: 250, wantEnd: 1750},
		{name: "rounds half up", start: 0.0005, duration: 1.0004, wantStart: 1, wantDur: 1000, wantEnd: 1001},
		{name: "zero", start: 0, duration: 0, wantStart: 0, wantDur: 0, wantEnd: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := AudioTrack{StartOffset: tt.start, Duration: tt.duration}
			assert.Equal(t, tt.wantStart, track.StartOffsetMs())
			assert.Equal(t, tt.wantDur, track.DurationMs())
			assert.Equal(t, tt.wantEnd, track.EndOffsetMs())
		})
	}
}

func TestAudioTrack_BookChapter(t *testing.T) {
	track := localTrack(3, 120.5, 60.25, "f3")
	track.Title = "Chapter Three"

	first := track.BookChapter()
	second := track.BookChapter()

	assert.Equal(t, first, second)
	assert.Equal(t, 4, first.ID)
	assert.Equal(t, 120.5, first.Start)
	assert.Equal(t, 180.75, first.End)
	assert.Equal(t, track.Duration, first.End-first.Start)
	assert.Equal(t, "Chapter Three", *first.Title)

	// The projection must not alias the track's title.
	*first.Title = "changed"
	assert.Equal(t, "Chapter Three", track.Title)
	assert.Equal(t, "Chapter Three", *second.Title)
}

func TestAudioTrack_LocalID(t *testing.T) {
	remote := AudioTrack{Index: 1}
	_, ok := remote.LocalID()
	assert.False(t, ok)
	assert.False(t, remote.HasLocalID(""))

	local := localTrack(1, 0, 10, "abc")
	id, ok := local.LocalID()
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
	assert.True(t, local.HasLocalID("abc"))
	assert.False(t, local.HasLocalID("abd"))
}

func TestAudioTrack_Contains(t *testing.T) {
	track := localTrack(2, 100, 50, "b")

	assert.False(t, track.Contains(99.99))
	assert.True(t, track.Contains(100))
	assert.True(t, track.Contains(149.99))
	assert.False(t, track.Contains(150))
}

func TestAudioTrack_RelPath(t *testing.T) {
	assert.Equal(t, "", (&AudioTrack{}).RelPath())

	track := AudioTrack{Metadata: &FileMetadata{RelPath: "disc1/01.mp3"}}
	assert.Equal(t, "disc1/01.mp3", track.RelPath())
}
