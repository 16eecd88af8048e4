package guitar

import (
	"testing"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/model"
	"github.com/stretchr/testify/assert"
)

func TestParseNote(t *testing.T) {
	cases := map[string]int{
		"C":  48,
		"A":  45,
		"B":  47,
		"e":  64,
		"b":  59,
		"G":  55,
		"D":  50,
		"E1": 40,
		"D1": 38,
		"c1": 60,
		"c2": 72,
		"E2": 28,
		"F#": 54,
		"c#": 61,
	}
	assert := assert.New(t)
	for name, want := range cases {
		got, err := ParseNote(name)
		assert.NoError(err, name)
		assert.Equal(got, want, name)
	}

	_, err := ParseNote("H")
	assert.Error(err)
	_, err = ParseNote("")
	assert.Error(err)
}

func TestNoteNameRoundTrip(t *testing.T) {
	assert := assert.New(t)
	for _, num := range []int{28, 40, 45, 48, 52, 55, 59, 60, 64, 72} {
		name := NoteName(num)
		got, err := ParseNote(name)
		assert.NoError(err, name)
		assert.Equal(got, num, name)
	}
}

func newStandard(t *testing.T) *Instrument {
	in, err := New(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	return in
}

func TestStandardTuningPitches(t *testing.T) {
	in := newStandard(t)

	assert := assert.New(t)
	assert.Equal(in.OpenPitches, []int{64, 59, 55, 50, 45, 40})
	assert.Equal(in.MinPitch(), 40)
	assert.Equal(in.MaxPitch(), 86)
}

func TestCandidatePositionsDerivedPitchMatches(t *testing.T) {
	in := newStandard(t)

	assert := assert.New(t)
	for pitch := in.MinPitch(); pitch <= in.MaxPitch(); pitch++ {
		for _, p := range in.CandidatePositions(pitch) {
			assert.Equal(in.OpenPitches[p.String]+p.Fret, pitch)
		}
	}
}

func TestCandidatePositionsBassStringCap(t *testing.T) {
	in := newStandard(t)

	// e4 = 64: fret 19 on the A string is beyond reach, fret 14 on D is not
	assert := assert.New(t)
	positions := in.CandidatePositions(64)
	assert.Contains(positions, model.FretPosition{String: 0, Fret: 0})
	assert.Contains(positions, model.FretPosition{String: 3, Fret: 14})
	assert.NotContains(positions, model.FretPosition{String: 4, Fret: 19})
}

func TestCandidatePositionsUnplayablePitch(t *testing.T) {
	in := newStandard(t)

	assert := assert.New(t)
	assert.Empty(in.CandidatePositions(in.MinPitch() - 1))
	assert.Empty(in.CandidatePositions(in.MaxPitch() + 1))
}

func TestHarmonicsAddPositions(t *testing.T) {
	cfg := config.Default()
	cfg.Harmonics = true
	in, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// high e string 5th fret harmonic sounds two octaves up
	assert := assert.New(t)
	assert.Contains(in.CandidatePositions(64+24), model.FretPosition{String: 0, Fret: 5})
}

func TestPositionSetPlayable(t *testing.T) {
	in := newStandard(t)

	cases := []struct {
		name      string
		positions []model.FretPosition
		want      bool
	}{
		{
			"open chord",
			[]model.FretPosition{{String: 0, Fret: 0}, {String: 1, Fret: 1}, {String: 2, Fret: 0}},
			true,
		},
		{
			"duplicate string",
			[]model.FretPosition{{String: 0, Fret: 0}, {String: 0, Fret: 3}},
			false,
		},
		{
			"span too wide low",
			[]model.FretPosition{{String: 1, Fret: 1}, {String: 2, Fret: 12}},
			false,
		},
		{
			"wider span allowed high",
			[]model.FretPosition{{String: 1, Fret: 8}, {String: 2, Fret: 14}},
			true,
		},
		{
			"five distinct frets",
			[]model.FretPosition{
				{String: 0, Fret: 3}, {String: 1, Fret: 4}, {String: 2, Fret: 5},
				{String: 3, Fret: 6}, {String: 4, Fret: 7},
			},
			false,
		},
	}

	assert := assert.New(t)
	for _, c := range cases {
		assert.Equal(in.PositionSetPlayable(c.positions), c.want, c.name)
	}
}

func TestFretGeometry(t *testing.T) {
	in := newStandard(t)

	assert := assert.New(t)
	assert.InDelta(in.FretX(12), in.ScaleLength/2, 1e-9)
	assert.Equal(in.FingerX(0), 0.0)
	assert.Less(in.FretX(13)-in.FretX(12), in.FretX(1)-in.FretX(0))

	a := model.FretPosition{String: 0, Fret: 1}
	b := model.FretPosition{String: 2, Fret: 1}
	assert.InDelta(in.Distance(a, b), 2*in.StringGap, 1e-9)
}
