package midi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fretmotion/fretmotion/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

var (
	// ErrEmptyStream means extraction found no notes on the
	// requested tracks.
	ErrEmptyStream = errors.New("no notes extracted")

	// ErrMalformedInput covers note-offs before their note-on and
	// other inconsistencies that make the event stream unusable.
	ErrMalformedInput = errors.New("malformed note stream")
)

type ExtractOptions struct {
	// Tracks selects track indexes; empty means all tracks.
	Tracks []int
	// Channel filters midi channels; -1 accepts every channel.
	Channel int
	// OctaveDown shifts everything 12 semitones down, for files
	// written an octave above guitar pitch.
	OctaveDown bool
	// Capo is subtracted from every note so the instrument model
	// can stay capo-free.
	Capo int
	FPS  float64
}

type noteSpan struct {
	pitch    int
	velocity int
	track    int
	onTick   uint64
	offTick  uint64
	open     bool
}

// ExtractGroups pairs note-ons with note-offs on the selected tracks
// and buckets the result into onset groups, ordered by tick.
func ExtractGroups(s *smf.SMF, tm TempoMap, opts ExtractOptions) ([]model.NoteGroup, error) {
	wantTrack := make(map[int]bool)
	for _, t := range opts.Tracks {
		wantTrack[t] = true
	}

	var spans []noteSpan
	openByPitch := make(map[int][]int)

	for trackNum, events := range s.Tracks {
		if len(opts.Tracks) > 0 && !wantTrack[trackNum] {
			continue
		}

		var absTicks uint64
		for _, event := range events {
			absTicks += uint64(event.Delta)
			var channel uint8
			var key uint8
			var velocity uint8
			switch {
			case event.Message.GetNoteStart(&channel, &key, &velocity):
				if opts.Channel != -1 && int(channel) != opts.Channel {
					continue
				}
				pitch := int(key)
				if opts.OctaveDown {
					pitch -= 12
				}
				pitch -= opts.Capo
				spans = append(spans, noteSpan{
					pitch:    pitch,
					velocity: int(velocity),
					track:    trackNum,
					onTick:   absTicks,
					open:     true,
				})
				openByPitch[pitch] = append(openByPitch[pitch], len(spans)-1)
			case event.Message.GetNoteEnd(&channel, &key):
				if opts.Channel != -1 && int(channel) != opts.Channel {
					continue
				}
				pitch := int(key)
				if opts.OctaveDown {
					pitch -= 12
				}
				pitch -= opts.Capo
				queue := openByPitch[pitch]
				if len(queue) == 0 {
					return nil, fmt.Errorf("%w: note off at tick %v with no matching note on", ErrMalformedInput, absTicks)
				}
				idx := queue[0]
				openByPitch[pitch] = queue[1:]
				if absTicks < spans[idx].onTick {
					return nil, fmt.Errorf("%w: note off before note on at tick %v", ErrMalformedInput, absTicks)
				}
				spans[idx].offTick = absTicks
				spans[idx].open = false
			}
		}
		// a track change ends whatever is still sounding
		openByPitch = make(map[int][]int)
	}

	if len(spans) == 0 {
		return nil, ErrEmptyStream
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].onTick != spans[j].onTick {
			return spans[i].onTick < spans[j].onTick
		}
		return spans[i].pitch < spans[j].pitch
	})

	fps := opts.FPS
	if fps == 0 {
		fps = 30
	}

	var groups []model.NoteGroup
	byTick := make(map[uint64]int)
	for _, sp := range spans {
		onset := tm.SecondsAt(float64(sp.onTick))
		var end float64
		if sp.open {
			// no note off seen, hold for half a second
			end = onset + 0.5
		} else {
			end = tm.SecondsAt(float64(sp.offTick))
		}

		ev := model.NoteEvent{
			Pitch:    sp.pitch,
			Onset:    onset,
			Duration: end - onset,
			Velocity: sp.velocity,
			Track:    sp.track,
			Tick:     float64(sp.onTick),
		}

		gi, ok := byTick[sp.onTick]
		if !ok {
			groups = append(groups, model.NoteGroup{
				Onset: onset,
				Tick:  float64(sp.onTick),
				Frame: tm.FrameAt(fps, float64(sp.onTick)),
			})
			gi = len(groups) - 1
			byTick[sp.onTick] = gi
		}
		groups[gi].Events = append(groups[gi].Events, ev)
	}

	return groups, nil
}

// ValidateGroups rejects streams the optimizer cannot step over.
func ValidateGroups(groups []model.NoteGroup) error {
	prev := -1.0
	for _, g := range groups {
		if g.Onset < prev {
			return fmt.Errorf("%w: onsets go backwards at tick %v", ErrMalformedInput, g.Tick)
		}
		prev = g.Onset
		for _, e := range g.Events {
			if e.Duration < 0 {
				return fmt.Errorf("%w: negative duration at tick %v", ErrMalformedInput, g.Tick)
			}
		}
	}
	return nil
}
