package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/fretmotion/fretmotion/model"
)

func makeSMF(build func(tr *smf.Track)) *smf.SMF {
	s := smf.New()
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	build(&tr)
	tr.Close(0)
	s.Add(tr)
	return s
}

func TestExtractGroupsChordAndMelody(t *testing.T) {
	s := makeSMF(func(tr *smf.Track) {
		// a C major triad, then a single D
		tr.Add(0, midi.NoteOn(0, 60, 90))
		tr.Add(0, midi.NoteOn(0, 64, 80))
		tr.Add(0, midi.NoteOn(0, 67, 70))
		tr.Add(480, midi.NoteOff(0, 60))
		tr.Add(0, midi.NoteOff(0, 64))
		tr.Add(0, midi.NoteOff(0, 67))
		tr.Add(0, midi.NoteOn(0, 62, 90))
		tr.Add(480, midi.NoteOff(0, 62))
	})

	tm := GetTempoMap(s)
	groups, err := ExtractGroups(s, tm, ExtractOptions{Channel: -1})
	assert.NoError(t, err)
	assert.Len(t, groups, 2)

	assert.Len(t, groups[0].Events, 3)
	assert.Equal(t, groups[0].Pitches(), model.Notes{60, 64, 67})
	assert.Len(t, groups[1].Events, 1)
	assert.Equal(t, groups[1].Events[0].Pitch, 62)
	assert.Greater(t, groups[1].Onset, groups[0].Onset)

	// 480 ticks at 120bpm over 960 tpb is a quarter of a second
	assert.InDelta(t, groups[0].Events[0].Duration, 0.25, 1e-9)
}

func TestExtractGroupsTransposition(t *testing.T) {
	s := makeSMF(func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 60, 90))
		tr.Add(480, midi.NoteOff(0, 60))
	})
	tm := GetTempoMap(s)

	groups, err := ExtractGroups(s, tm, ExtractOptions{Channel: -1, OctaveDown: true, Capo: 2})
	assert.NoError(t, err)
	assert.Equal(t, groups[0].Events[0].Pitch, 60-12-2)
}

func TestExtractGroupsEmptyStream(t *testing.T) {
	s := makeSMF(func(tr *smf.Track) {})
	tm := GetTempoMap(s)

	_, err := ExtractGroups(s, tm, ExtractOptions{Channel: -1})
	assert.ErrorIs(t, err, ErrEmptyStream)
}

func TestExtractGroupsChannelFilter(t *testing.T) {
	s := makeSMF(func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 60, 90))
		tr.Add(0, midi.NoteOn(1, 64, 90))
		tr.Add(480, midi.NoteOff(0, 60))
		tr.Add(0, midi.NoteOff(1, 64))
	})
	tm := GetTempoMap(s)

	groups, err := ExtractGroups(s, tm, ExtractOptions{Channel: 1})
	assert.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Len(t, groups[0].Events, 1)
	assert.Equal(t, groups[0].Events[0].Pitch, 64)
}

func TestExtractGroupsUnmatchedNoteOff(t *testing.T) {
	s := makeSMF(func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 60, 90))
		tr.Add(480, midi.NoteOff(0, 60))
		tr.Add(0, midi.NoteOff(0, 64))
	})
	tm := GetTempoMap(s)

	_, err := ExtractGroups(s, tm, ExtractOptions{Channel: -1})
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestValidateGroups(t *testing.T) {
	good := []model.NoteGroup{
		{Onset: 0, Events: []model.NoteEvent{{Pitch: 60, Duration: 0.5}}},
		{Onset: 1, Events: []model.NoteEvent{{Pitch: 62, Duration: 0.5}}},
	}
	assert.NoError(t, ValidateGroups(good))

	backwards := []model.NoteGroup{{Onset: 1}, {Onset: 0}}
	assert.ErrorIs(t, ValidateGroups(backwards), ErrMalformedInput)

	negative := []model.NoteGroup{
		{Onset: 0, Events: []model.NoteEvent{{Pitch: 60, Duration: -0.5}}},
	}
	assert.ErrorIs(t, ValidateGroups(negative), ErrMalformedInput)
}

func TestTempoMapSeconds(t *testing.T) {
	s := makeSMF(func(tr *smf.Track) {
		tr.Add(0, midi.NoteOn(0, 60, 90))
		tr.Add(480, midi.NoteOff(0, 60))
	})
	tm := GetTempoMap(s)

	assert.Equal(t, tm.TicksPerBeat, uint16(960))
	assert.InDelta(t, tm.SecondsAt(960), 0.5, 1e-9)
	assert.InDelta(t, tm.FrameAt(30, 960), 15, 1e-9)
}
