package recorder

import (
	"sort"

	"github.com/fretmotion/fretmotion/fingering"
	"github.com/fretmotion/fretmotion/model"
)

// BuildStringFrames derives the per-string influence envelopes the
// animation consumer reads: each excited string ramps in just before
// the pluck, peaks, and decays by fps/8 frames later or at the next
// sounding step, whichever comes first.
func BuildStringFrames(steps []fingering.Step, fps float64) []model.StringFrame {
	var sounding []fingering.Step
	for _, s := range steps {
		if s.Sustained || len(s.Positions) == 0 {
			continue
		}
		sounding = append(sounding, s)
	}

	var res []model.StringFrame
	for i, s := range sounding {
		frame := s.Group.Frame
		end := frame + fps/8
		if i < len(sounding)-1 && sounding[i+1].Group.Frame < end {
			end = sounding[i+1].Group.Frame
		}

		for _, p := range s.Positions {
			add := func(f, influence float64) {
				if f < 0 {
					return
				}
				res = append(res, model.StringFrame{
					Frame:     f,
					String:    p.String,
					Fret:      p.Fret,
					Influence: influence,
				})
			}
			add(frame-1, 0)
			add(frame, 0.5)
			if end-frame > 2 {
				add((frame+end)/2, 1.0)
			}
			add(end, 0)
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Frame != res[j].Frame {
			return res[i].Frame < res[j].Frame
		}
		return res[i].String < res[j].String
	})
	return res
}
