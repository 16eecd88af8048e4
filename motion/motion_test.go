package motion

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

func runSteps(t *testing.T, cfg config.Config, pitchSets ...model.Notes) (*guitar.Instrument, []fingering.Step) {
	in := newStandard(t)
	var groups []model.NoteGroup
	for i, pitches := range pitchSets {
		g := model.NoteGroup{
			Onset: float64(i) * 0.5,
			Tick:  float64(i) * 480,
			Frame: float64(i) * 0.5 * cfg.FPS,
		}
		for _, p := range pitches {
			g.Events = append(g.Events, model.NoteEvent{
				Pitch: p, Onset: g.Onset, Duration: 0.4, Velocity: 80, Tick: g.Tick,
			})
		}
		groups = append(groups, g)
	}
	res, err := fingering.Run(in, cfg, groups, nil)
	if err != nil {
		t.Fatal(err)
	}
	return in, res.Steps
}

func TestSynthesizeEmpty(t *testing.T) {
	in := newStandard(t)

	tr := Synthesize(in, config.Default(), nil)
	assert.Empty(t, tr.Keyframes)
	assert.Empty(t, tr.Samples)
}

func TestSynthesizeTimestampsNondecreasing(t *testing.T) {
	cfg := config.Default()
	in, steps := runSteps(t, cfg, model.Notes{48}, model.Notes{52}, model.Notes{55})

	tr := Synthesize(in, cfg, steps)
	assert.NotEmpty(t, tr.Keyframes)

	for i := 1; i < len(tr.Keyframes); i++ {
		assert.Greater(t, tr.Keyframes[i].Frame, tr.Keyframes[i-1].Frame, "keyframe %v", i)
	}
	for i := 1; i < len(tr.Samples); i++ {
		assert.Greater(t, tr.Samples[i].Time, tr.Samples[i-1].Time, "sample %v", i)
		assert.Equal(t, tr.Samples[i].Frame, i)
	}
}

func TestSynthesizeVelocityBound(t *testing.T) {
	cfg := config.Default()
	cfg.MaxVelocity = 60
	// a hard jump up the neck
	in, steps := runSteps(t, cfg, model.Notes{40}, model.Notes{84}, model.Notes{40})

	tr := Synthesize(in, cfg, steps)
	maxStep := cfg.MaxVelocity / cfg.FPS

	for i := 1; i < len(tr.Samples); i++ {
		prev, cur := tr.Samples[i-1], tr.Samples[i]
		assert.LessOrEqual(t, prev.Palm.Dist(cur.Palm), maxStep+1e-9, "palm frame %v", i)
		for f := 0; f < 4; f++ {
			d := prev.Fingers[f].Pos.Dist(cur.Fingers[f].Pos)
			assert.LessOrEqual(t, d, maxStep+1e-9, "finger %v frame %v", f, i)
		}
	}
}

func TestSynthesizeBeatFramesMatchSteps(t *testing.T) {
	cfg := config.Default()
	in, steps := runSteps(t, cfg, model.Notes{48, 52, 55}, model.Notes{50})

	tr := Synthesize(in, cfg, steps)

	var beats []model.Keyframe
	for _, kf := range tr.Keyframes {
		if kf.Kind == model.BeatFrame {
			beats = append(beats, kf)
		}
	}
	assert.Len(t, beats, len(steps))
	for i, kf := range beats {
		assert.Equal(t, kf.Frame, steps[i].Group.Frame)
		assert.Equal(t, kf.Hand.Fingerprint(), steps[i].Hand.Fingerprint())
	}
}

func TestSynthesizeReadyPrecedesBeat(t *testing.T) {
	cfg := config.Default()
	in, steps := runSteps(t, cfg, model.Notes{48}, model.Notes{55})

	tr := Synthesize(in, cfg, steps)

	readies := 0
	for i, kf := range tr.Keyframes {
		if kf.Kind != model.ReadyFrame {
			continue
		}
		readies++
		assert.Less(t, i, len(tr.Keyframes)-1)
		next := tr.Keyframes[i+1]
		assert.Equal(t, next.Kind, model.BeatFrame)
		assert.Equal(t, next.Step, kf.Step)
		// the ready shape hovers, nothing pressed
		for _, fa := range kf.Hand.Fingers {
			assert.False(t, fa.Press.Sounding())
		}
	}
	// the first beat lands on frame 0, too early for a ready shape
	assert.Equal(t, readies, 1)
}

func TestSynthesizeIdleOnLongRest(t *testing.T) {
	cfg := config.Default()
	cfg.IdleAfter = 2
	in := newStandard(t)

	groups := []model.NoteGroup{
		{Events: []model.NoteEvent{{Pitch: 48, Duration: 0.4, Velocity: 80}}, Onset: 0, Frame: 0},
		{Events: []model.NoteEvent{{Pitch: 55, Onset: 6, Duration: 0.4, Velocity: 80, Tick: 960}}, Onset: 6, Tick: 960, Frame: 6 * cfg.FPS},
	}
	res, err := fingering.Run(in, cfg, groups, nil)
	assert.NoError(t, err)

	tr := Synthesize(in, cfg, res.Steps)

	idles := 0
	for _, kf := range tr.Keyframes {
		if kf.Kind == model.IdleFrame && kf.Frame > 0 {
			idles++
		}
	}
	assert.Equal(t, idles, 1)
}

func TestSynthesizeDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 8
	in, steps := runSteps(t, cfg, model.Notes{48, 52, 55}, model.Notes{50}, model.Notes{45})

	first := Synthesize(in, cfg, steps)
	second := Synthesize(in, cfg, steps)
	assert.Equal(t, first, second)
}
