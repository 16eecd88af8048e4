// Package motion turns committed fingering steps into a smooth,
// velocity-bounded animation: sparse keyframes first (hold, lift,
// anticipatory ready shapes between steps), then dense fixed-rate
// samples eased between them.
package motion

import (
	"math"
	"sort"
	"sync"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/fingering"
	"github.com/fretmotion/fretmotion/guitar"
	"github.com/fretmotion/fretmotion/model"
	"github.com/fretmotion/fretmotion/util"
)

// timings holds the frame-rate derived durations, in frames.
type timings struct {
	press float64 // finger press-down
	lift  float64 // return to rest over the board
	trans float64 // full transition between shapes
}

func newTimings(fps float64) timings {
	press := fps / 16
	return timings{
		press: press,
		lift:  1.2 * press,
		trans: 3 * press,
	}
}

// Synthesize builds the trajectory for a committed fingering. An
// empty step list yields an empty trajectory.
func Synthesize(in *guitar.Instrument, cfg config.Config, steps []fingering.Step) model.Trajectory {
	res := model.Trajectory{FPS: cfg.FPS}
	if len(steps) == 0 {
		return res
	}

	res.Keyframes = synthesizeKeyframes(in, cfg, steps)
	res.Samples = sampleFrames(in, cfg, res.Keyframes)
	clampVelocity(res.Samples, cfg.MaxVelocity/cfg.FPS)
	return res
}

func synthesizeKeyframes(in *guitar.Instrument, cfg config.Config, steps []fingering.Step) []model.Keyframe {
	tm := newTimings(cfg.FPS)
	var kfs []model.Keyframe

	add := func(frame float64, kind model.KeyframeKind, step int, hand model.HandState) {
		if frame < 0 {
			frame = 0
		}
		kfs = append(kfs, model.Keyframe{
			Frame: frame,
			Time:  frame / cfg.FPS,
			Kind:  kind,
			Step:  step,
			Hand:  hand,
		})
	}

	// the hand starts at rest before the first shape forms
	first := steps[0]
	add(0, model.IdleFrame, first.Index, fingering.RestHand(in, 1))
	if first.Group.Frame-tm.press > 0 {
		add(first.Group.Frame-tm.press, model.ReadyFrame, first.Index, readyHand(first.Hand))
	}

	for i, cur := range steps {
		add(cur.Group.Frame, model.BeatFrame, cur.Index, cur.Hand)

		end := cur.Group.Frame + holdFrames(cur, cfg.FPS)
		if i == len(steps)-1 {
			// release the last shape
			add(end, model.HoldFrame, cur.Index, cur.Hand)
			add(end+tm.lift, model.LiftFrame, cur.Index, liftedHand(cur.Hand))
			break
		}

		next := steps[i+1]
		gap := next.Group.Frame - end
		ready := math.Max(next.Group.Frame-tm.press, end)

		switch {
		case gap >= tm.trans+tm.lift+tm.press:
			add(end, model.HoldFrame, cur.Index, cur.Hand)
			add(end+tm.lift, model.LiftFrame, cur.Index, liftedHand(cur.Hand))
			if (next.Group.Frame-end)/cfg.FPS > cfg.IdleAfter {
				// long rest, drop the hand to the neutral pose
				mid := (end + tm.lift + ready) / 2
				add(mid, model.IdleFrame, cur.Index, fingering.RestHand(in, cur.Hand.Position))
			}
			add(ready, model.ReadyFrame, next.Index, readyHand(next.Hand))
		case gap >= tm.lift+tm.press:
			add(end, model.LiftFrame, cur.Index, liftedHand(cur.Hand))
			add(ready, model.ReadyFrame, next.Index, readyHand(next.Hand))
		case gap >= tm.press:
			add(ready, model.ReadyFrame, next.Index, readyHand(next.Hand))
		}
	}

	sort.SliceStable(kfs, func(i, j int) bool {
		return kfs[i].Frame < kfs[j].Frame
	})

	// collapse coincident frames, the later synthesized shape wins
	res := kfs[:0]
	for _, kf := range kfs {
		if len(res) > 0 && res[len(res)-1].Frame == kf.Frame {
			res[len(res)-1] = kf
			continue
		}
		res = append(res, kf)
	}
	return res
}

// holdFrames is how long a shape is held sounding, in frames: the
// longest note of the group.
func holdFrames(s fingering.Step, fps float64) float64 {
	var dur float64
	for _, e := range s.Group.Events {
		if e.Duration > dur {
			dur = e.Duration
		}
	}
	return dur * fps
}

// liftedHand releases every press but keeps the fingers in place.
func liftedHand(h model.HandState) model.HandState {
	res := h
	res.Fingers = make([]model.FingerAssignment, len(h.Fingers))
	for i, fa := range h.Fingers {
		fa.Press = model.Open
		res.Fingers[i] = fa
	}
	res.UseBarre = false
	return res
}

// readyHand pre-positions the fingers over their next targets,
// hovering.
func readyHand(h model.HandState) model.HandState {
	return liftedHand(h)
}

// sampleFrames renders the keyframes at the configured rate. Segments
// are independent, so they fan out to workers; each worker writes a
// disjoint index range of the shared slice.
func sampleFrames(in *guitar.Instrument, cfg config.Config, kfs []model.Keyframe) []model.FrameSample {
	if len(kfs) == 0 {
		return nil
	}

	lastFrame := int(math.Ceil(kfs[len(kfs)-1].Frame))
	samples := make([]model.FrameSample, lastFrame+1)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seg := range jobs {
				sampleSegment(in, cfg.FPS, kfs, seg, samples)
			}
		}()
	}
	for seg := 0; seg < len(kfs); seg++ {
		jobs <- seg
	}
	close(jobs)
	wg.Wait()

	return samples
}

// sampleSegment fills the integer frames covered by keyframe segment
// seg: [kfs[seg].Frame, kfs[seg+1].Frame), and for the final keyframe
// the closing frame itself.
func sampleSegment(in *guitar.Instrument, fps float64, kfs []model.Keyframe, seg int, samples []model.FrameSample) {
	a := kfs[seg]
	from := int(math.Ceil(a.Frame))
	if seg == 0 {
		from = 0
	}

	if seg == len(kfs)-1 {
		last := int(math.Ceil(a.Frame))
		p := pose(in, a.Hand)
		for n := from; n <= last && n < len(samples); n++ {
			samples[n] = sampleAt(n, fps, p)
		}
		return
	}

	b := kfs[seg+1]
	to := int(math.Ceil(b.Frame)) // exclusive
	if to <= from {
		return
	}
	pa, pb := pose(in, a.Hand), pose(in, b.Hand)
	span := b.Frame - a.Frame

	for n := from; n < to && n < len(samples); n++ {
		t := 0.0
		if span > 0 {
			t = (float64(n) - a.Frame) / span
		}
		samples[n] = sampleAt(n, fps, lerpPose(pa, pb, smoothstep(t)))
	}
}

func smoothstep(t float64) float64 {
	t = util.Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// handPose is the geometric realization of a HandState.
type handPose struct {
	palm    model.Vec2
	fingers [4]model.FingerPose
}

// pose maps a hand shape into the fretboard plane: palm under the
// hand position, fingertips at their string/fret points.
func pose(in *guitar.Instrument, h model.HandState) handPose {
	var res handPose
	res.palm = model.Vec2{
		X: in.FingerX(h.Position),
		Y: in.StringY(in.NumStrings()),
	}
	for f := model.FingerIndex; f <= model.FingerPinky; f++ {
		fa, ok := h.FindFinger(f)
		if !ok {
			fret := h.Position + int(f) - 1
			fa = model.FingerAssignment{
				Pos:   model.FretPosition{String: 1, Fret: fret},
				Press: model.Open,
			}
		}
		res.fingers[f-1] = model.FingerPose{
			Pos:     in.FingerPoint(fa.Pos),
			Pressed: fa.Press.Sounding(),
		}
	}
	return res
}

func lerpPose(a, b handPose, t float64) handPose {
	var res handPose
	res.palm = lerp(a.palm, b.palm, t)
	for f := 0; f < 4; f++ {
		res.fingers[f] = model.FingerPose{
			Pos:     lerp(a.fingers[f].Pos, b.fingers[f].Pos, t),
			Pressed: pick(a.fingers[f].Pressed, b.fingers[f].Pressed, t),
		}
	}
	return res
}

func lerp(a, b model.Vec2, t float64) model.Vec2 {
	return a.Add(b.Sub(a).Scale(t))
}

func pick(a, b bool, t float64) bool {
	if t < 0.5 {
		return a
	}
	return b
}

func sampleAt(n int, fps float64, p handPose) model.FrameSample {
	return model.FrameSample{
		Frame:   n,
		Time:    float64(n) / fps,
		Palm:    p.palm,
		Fingers: p.fingers,
	}
}

// clampVelocity is a sequential pass over the samples limiting every
// per-frame displacement to maxStep cm. It runs after the parallel
// sampling because each frame depends on the clamped previous one.
func clampVelocity(samples []model.FrameSample, maxStep float64) {
	for i := 1; i < len(samples); i++ {
		prev, cur := &samples[i-1], &samples[i]
		cur.Palm = clampPoint(prev.Palm, cur.Palm, maxStep)
		for f := 0; f < 4; f++ {
			cur.Fingers[f].Pos = clampPoint(prev.Fingers[f].Pos, cur.Fingers[f].Pos, maxStep)
		}
	}
}

func clampPoint(from, to model.Vec2, maxStep float64) model.Vec2 {
	d := from.Dist(to)
	if d <= maxStep {
		return to
	}
	return from.Add(to.Sub(from).Scale(maxStep / d))
}
