package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF
	var err error

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)

	if err != nil {
		errText := fmt.Sprintf("Error reading midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))

	if err != nil {
		errText := fmt.Sprintf("Error parsing midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}

	return res, nil
}

type TempoChange struct {
	Track int
	Tick  uint64
	BPM   float64
}

// TempoMap converts absolute ticks into wall time. The standard
// 120bpm default applies before the first tempo event.
type TempoMap struct {
	Changes      []TempoChange
	TicksPerBeat uint16
}

func GetTempoMap(s *smf.SMF) TempoMap {
	tm := TempoMap{TicksPerBeat: 480}
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		tm.TicksPerBeat = uint16(mt)
	}

	for i, events := range s.Tracks {
		var absTicks uint64
		for _, event := range events {
			absTicks += uint64(event.Delta)
			var bpm float64
			if event.Message.GetMetaTempo(&bpm) {
				tm.Changes = append(tm.Changes, TempoChange{Track: i, Tick: absTicks, BPM: bpm})
			}
		}
	}

	sort.SliceStable(tm.Changes, func(i, j int) bool {
		return tm.Changes[i].Tick < tm.Changes[j].Tick
	})

	if len(tm.Changes) == 0 || tm.Changes[0].Tick > 0 {
		tm.Changes = append([]TempoChange{{Track: 0, Tick: 0, BPM: 120}}, tm.Changes...)
	}
	return tm
}

// SecondsAt accumulates the tempo segments up to the given tick.
func (tm TempoMap) SecondsAt(tick float64) float64 {
	var total float64

	for i, ch := range tm.Changes {
		if float64(ch.Tick) > tick {
			break
		}

		next := tick
		if i+1 < len(tm.Changes) && float64(tm.Changes[i+1].Tick) < tick {
			next = float64(tm.Changes[i+1].Tick)
		}

		total += (next - float64(ch.Tick)) * 60 / (ch.BPM * float64(tm.TicksPerBeat))
	}

	return total
}

func (tm TempoMap) FrameAt(fps, tick float64) float64 {
	return tm.SecondsAt(tick) * fps
}
