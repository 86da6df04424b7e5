package media

import (
	"math"

	"github.com/listenupapp/listenup-shelf/internal/errors"
)

// durationTolerance absorbs float summation noise when comparing seconds.
const durationTolerance = 1e-6

// CheckInvariants reports inconsistencies in m as joined InvariantViolation
// errors, or nil. It never modifies m.
//
// Book: duplicate local file ids among tracks, Duration not equal to the sum
// of track durations. Podcast: duplicate episode ids, more than one episode
// backed by the same local file.
func CheckInvariants(m Media) error {
	switch v := m.(type) {
	case *Book:
		return checkBook(v)
	case *Podcast:
		return checkPodcast(v)
	case nil:
		return errors.Invariantf("media is nil")
	default:
		return errors.Invariantf("unknown media type %T", m)
	}
}

// CheckInvariants checks the item's media and that MediaType agrees with it.
func (li *LibraryItem) CheckInvariants() error {
	if li.Media == nil {
		return errors.Invariantf("item %s: media is nil", li.ID)
	}
	var errs []error
	if li.Media.Kind() != li.MediaType {
		errs = append(errs, errors.Invariantf("item %s: mediaType %q but media is %q", li.ID, li.MediaType, li.Media.Kind()))
	}
	if err := CheckInvariants(li.Media); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CheckTrackSequence reports whether tracks are numbered 1..n with each start
// offset equal to the sum of the durations before it. This holds after
// Book.RemoveAudioTrack but is not enforced by SetAudioTracks or AddAudioTrack.
func CheckTrackSequence(tracks []AudioTrack) error {
	var errs []error
	var offset float64
	for i, t := range tracks {
		if t.Index != i+1 {
			errs = append(errs, errors.Invariantf("track %d: index %d, want %d", i, t.Index, i+1))
		}
		if math.Abs(t.StartOffset-offset) > durationTolerance {
			errs = append(errs, errors.Invariantf("track %d: startOffset %g, want %g", i, t.StartOffset, offset))
		}
		offset += t.Duration
	}
	return errors.Join(errs...)
}

func checkBook(b *Book) error {
	var errs []error
	for _, id := range duplicates(localIDs(b.Tracks)) {
		errs = append(errs, errors.Invariantf("book: local file %q backs more than one track", id))
	}
	sum := sumDurations(b.Tracks)
	if b.Duration != nil && math.Abs(*b.Duration-sum) > durationTolerance {
		errs = append(errs, errors.Invariantf("book: duration %g does not match track total %g", *b.Duration, sum))
	}
	return errors.Join(errs...)
}

func checkPodcast(p *Podcast) error {
	var errs []error
	ids := make([]string, 0, len(p.Episodes))
	for _, ep := range p.Episodes {
		ids = append(ids, ep.ID)
	}
	for _, id := range duplicates(ids) {
		errs = append(errs, errors.Invariantf("podcast: episode id %q is not unique", id))
	}
	for _, id := range duplicates(p.LocalFileIDs()) {
		errs = append(errs, errors.Invariantf("podcast: local file %q backs more than one episode", id))
	}
	return errors.Join(errs...)
}

// duplicates returns each value that occurs more than once, in first-seen order.
func duplicates(values []string) []string {
	seen := make(map[string]int, len(values))
	var out []string
	for _, v := range values {
		seen[v]++
		if seen[v] == 2 {
			out = append(out, v)
		}
	}
	return out
}
