package pickhand

import (
	"testing"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/fingering"
	"github.com/fretmotion/fretmotion/guitar"
	"github.com/fretmotion/fretmotion/model"
	"github.com/stretchr/testify/assert"
)

func newStandard(t *testing.T) *guitar.Instrument {
	in, err := guitar.New(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	return in
}

func makeSteps(strategy model.Strategy, positionSets ...[]model.FretPosition) []fingering.Step {
	var res []fingering.Step
	for i, positions := range positionSets {
		res = append(res, fingering.Step{
			Index:     i,
			Strategy:  strategy,
			Positions: positions,
			Group: model.NoteGroup{
				Onset: float64(i) * 0.5,
				Tick:  float64(i) * 480,
				Frame: float64(i) * 15,
			},
		})
	}
	return res
}

func TestAssignEmpty(t *testing.T) {
	in := newStandard(t)

	picks, plucks, cost, err := Assign(in, config.Default(), nil)
	assert.NoError(t, err)
	assert.Empty(t, picks)
	assert.Empty(t, plucks)
	assert.Equal(t, cost, 0.0)
}

func TestAssignPlucksEveryExcitedString(t *testing.T) {
	in := newStandard(t)
	steps := makeSteps(model.Chordal,
		[]model.FretPosition{{String: 4, Fret: 3}, {String: 2, Fret: 0}, {String: 0, Fret: 0}},
		[]model.FretPosition{{String: 5, Fret: 3}, {String: 3, Fret: 0}, {String: 1, Fret: 0}},
	)

	picks, plucks, _, err := Assign(in, config.Default(), steps)
	assert.NoError(t, err)
	assert.Len(t, picks, 2)
	assert.Len(t, plucks, 6)

	for i, step := range steps {
		want := map[int]bool{}
		for _, p := range step.Positions {
			want[p.String] = true
		}
		got := map[int]bool{}
		for _, pl := range plucks {
			if pl.Tick == step.Group.Tick {
				got[pl.String] = true
				assert.Equal(t, pl.Pitch, in.OpenPitches[pl.String]+pl.Fret)
			}
		}
		assert.Equal(t, got, want, "step %v", i)
	}
}

func TestAssignThumbTakesBassSide(t *testing.T) {
	in := newStandard(t)
	steps := makeSteps(model.Chordal,
		[]model.FretPosition{{String: 5, Fret: 0}, {String: 2, Fret: 0}, {String: 0, Fret: 0}},
	)

	_, plucks, _, err := Assign(in, config.Default(), steps)
	assert.NoError(t, err)

	slot := map[string]int{"p": 0, "i": 1, "m": 2, "a": 3}
	byString := map[int]int{}
	for _, pl := range plucks {
		byString[pl.String] = slot[pl.Finger]
	}

	// slot order must track string order: bass strings to earlier slots
	assert.Less(t, byString[5], byString[2])
	assert.Less(t, byString[2], byString[0])
}

func TestAssignNoFingerPlucksTwoStrings(t *testing.T) {
	in := newStandard(t)
	steps := makeSteps(model.Chordal,
		[]model.FretPosition{
			{String: 3, Fret: 2}, {String: 2, Fret: 0}, {String: 1, Fret: 1}, {String: 0, Fret: 0},
		},
	)

	_, plucks, _, err := Assign(in, config.Default(), steps)
	assert.NoError(t, err)
	assert.Len(t, plucks, 4)

	seen := map[string]bool{}
	for _, pl := range plucks {
		assert.False(t, seen[pl.Finger], "finger %v plucks twice", pl.Finger)
		seen[pl.Finger] = true
	}
}

func TestAssignStrum(t *testing.T) {
	in := newStandard(t)
	steps := makeSteps(model.Strum,
		[]model.FretPosition{
			{String: 5, Fret: 3}, {String: 4, Fret: 2}, {String: 3, Fret: 0},
			{String: 2, Fret: 0}, {String: 1, Fret: 3}, {String: 0, Fret: 3},
		},
	)

	picks, plucks, _, err := Assign(in, config.Default(), steps)
	assert.NoError(t, err)
	assert.Len(t, picks, 1)
	assert.True(t, picks[0].Strum)
	assert.Empty(t, picks[0].Used)
	assert.Len(t, plucks, 6)
	for _, pl := range plucks {
		assert.Equal(t, pl.Finger, "strum")
	}
}

func TestAssignSkipsSustainedSteps(t *testing.T) {
	in := newStandard(t)
	steps := makeSteps(model.Melodic,
		[]model.FretPosition{{String: 0, Fret: 0}},
		[]model.FretPosition{{String: 1, Fret: 0}},
	)
	steps[1].Sustained = true
	steps[1].Positions = nil

	picks, plucks, _, err := Assign(in, config.Default(), steps)
	assert.NoError(t, err)
	assert.Len(t, picks, 1)
	assert.Len(t, plucks, 1)
	assert.Equal(t, plucks[0].String, 0)
}

func TestAssignAlternatesOnRepeatedNotes(t *testing.T) {
	in := newStandard(t)
	pos := []model.FretPosition{{String: 0, Fret: 5}}
	steps := makeSteps(model.Melodic, pos, pos, pos, pos)

	picks, _, _, err := Assign(in, config.Default(), steps)
	assert.NoError(t, err)
	assert.Len(t, picks, 4)

	for i := 1; i < len(picks); i++ {
		assert.Len(t, picks[i].Used, 1)
		assert.NotEqual(t, picks[i].Used[0], picks[i-1].Used[0], "step %v reuses a finger", i)
	}
}

func TestAssignDeterministic(t *testing.T) {
	in := newStandard(t)
	steps := makeSteps(model.Chordal,
		[]model.FretPosition{{String: 4, Fret: 3}, {String: 1, Fret: 1}},
		[]model.FretPosition{{String: 0, Fret: 0}},
		[]model.FretPosition{{String: 5, Fret: 0}, {String: 2, Fret: 2}, {String: 0, Fret: 3}},
	)

	picks1, plucks1, cost1, err := Assign(in, config.Default(), steps)
	assert.NoError(t, err)
	picks2, plucks2, cost2, err := Assign(in, config.Default(), steps)
	assert.NoError(t, err)

	assert.Equal(t, picks1, picks2)
	assert.Equal(t, plucks1, plucks2)
	assert.Equal(t, cost1, cost2)
}
