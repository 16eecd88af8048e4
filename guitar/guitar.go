package guitar

import (
	"fmt"
	"math"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/model"
)

// HarmonicNote is a natural harmonic position: touching String at
// Fret sounds Pitch.
type HarmonicNote struct {
	String int
	Fret   int
	Pitch  int
}

// Instrument is the immutable playability model: which string/fret
// pairs exist, which sets of them a hand can cover, and where they
// sit physically. String 0 is the highest sounding string.
type Instrument struct {
	OpenPitches []int
	Frets       int
	Span        int
	Harmonics   bool
	ScaleLength float64
	StringGap   float64

	harmNotes []HarmonicNote
}

func New(cfg config.Config) (*Instrument, error) {
	names := ExpandTuning(cfg.Tuning)
	if len(names) < 2 {
		return nil, fmt.Errorf("tuning %v has too few strings", cfg.Tuning)
	}

	pitches := make([]int, len(names))
	for i, name := range names {
		num, err := ParseNote(name)
		if err != nil {
			return nil, err
		}
		pitches[i] = num
	}

	in := &Instrument{
		OpenPitches: pitches,
		Frets:       cfg.FretCount,
		Span:        cfg.Span,
		Harmonics:   cfg.Harmonics,
		ScaleLength: cfg.ScaleLength,
		StringGap:   cfg.StringGap,
	}
	in.harmNotes = in.harmonicNotes()
	return in, nil
}

// Natural harmonics per string: touch fret and interval above the
// open pitch.
var harmonicFrets = [][2]int{
	{5, 24},
	{7, 19},
	{12, 12},
	{4, 28},
	{9, 28},
}

func (in *Instrument) harmonicNotes() []HarmonicNote {
	var res []HarmonicNote
	for s, open := range in.OpenPitches {
		for _, hf := range harmonicFrets {
			res = append(res, HarmonicNote{String: s, Fret: hf[0], Pitch: open + hf[1]})
		}
	}
	return res
}

func (in *Instrument) NumStrings() int {
	return len(in.OpenPitches)
}

// MinPitch is the lowest open string, MaxPitch the highest string's
// top fret. Together they bound the playable range.
func (in *Instrument) MinPitch() int {
	return in.OpenPitches[len(in.OpenPitches)-1]
}

func (in *Instrument) MaxPitch() int {
	return in.OpenPitches[0] + in.Frets
}

// FretFor returns the fret sounding pitch on the given string, if it
// exists on the neck.
func (in *Instrument) FretFor(str, pitch int) (int, bool) {
	fret := pitch - in.OpenPitches[str]
	if fret < 0 || fret > in.Frets {
		return 0, false
	}
	return fret, true
}

// CandidatePositions lists every position sounding pitch. High frets
// on the bass strings are out of reach and excluded. An empty result
// means the pitch cannot be played at all.
func (in *Instrument) CandidatePositions(pitch int) []model.FretPosition {
	var res []model.FretPosition
	for s := range in.OpenPitches {
		if in.Harmonics {
			for _, hn := range in.harmNotes {
				if hn.String == s && hn.Pitch == pitch {
					res = append(res, model.FretPosition{String: s, Fret: hn.Fret})
				}
			}
		}
		fret, ok := in.FretFor(s, pitch)
		if !ok {
			continue
		}
		if s <= 2 || fret <= 16 {
			res = append(res, model.FretPosition{String: s, Fret: fret})
		}
	}
	return res
}

// PositionSetPlayable is the cheap cull on a raw position set before
// fingers are assigned: every note on its own string, at most four
// distinct fretted frets, and the fret span within reach. Low
// positions allow a span of Span frets, positions at fret 8 and up
// one more.
func (in *Instrument) PositionSetPlayable(positions []model.FretPosition) bool {
	seen := make(map[int]bool)
	for _, p := range positions {
		if seen[p.String] {
			return false
		}
		seen[p.String] = true
	}

	minFret, maxFret := 0, 0
	frets := make(map[int]bool)
	for _, p := range positions {
		if p.Fret == 0 {
			continue
		}
		frets[p.Fret] = true
		if minFret == 0 || p.Fret < minFret {
			minFret = p.Fret
		}
		if p.Fret > maxFret {
			maxFret = p.Fret
		}
	}
	if len(frets) == 0 {
		return true
	}
	if len(frets) > 4 {
		return false
	}

	span := maxFret - minFret
	if minFret < 8 {
		return span <= in.Span
	}
	return span <= in.Span+1
}

// Feasible reports whether a full finger assignment is physically
// coverable by one hand: no two entries claim the same string and the
// max pairwise fret distance among fretting fingers stays within the
// configured span.
func (in *Instrument) Feasible(assignments []model.FingerAssignment) bool {
	seen := make(map[int]bool)
	minFret, maxFret := 0, 0
	for _, fa := range assignments {
		if seen[fa.Pos.String] {
			return false
		}
		seen[fa.Pos.String] = true

		if fa.Finger <= 0 || fa.Pos.Fret == 0 {
			continue
		}
		if minFret == 0 || fa.Pos.Fret < minFret {
			minFret = fa.Pos.Fret
		}
		if fa.Pos.Fret > maxFret {
			maxFret = fa.Pos.Fret
		}
	}
	if minFret == 0 {
		return true
	}
	return maxFret-minFret <= in.Span
}

// FretX is the distance from the nut to the fret wire, on the
// equal-tempered curve: fret 12 sits at half the scale length.
func (in *Instrument) FretX(fret int) float64 {
	return in.ScaleLength * (1 - math.Pow(2, -float64(fret)/12))
}

// FingerX is where a finger actually lands, centered behind the wire.
func (in *Instrument) FingerX(fret int) float64 {
	if fret <= 0 {
		return 0
	}
	return (in.FretX(fret-1) + in.FretX(fret)) / 2
}

func (in *Instrument) StringY(str int) float64 {
	return float64(str) * in.StringGap
}

// FingerPoint maps a position into the fretboard plane, cm.
func (in *Instrument) FingerPoint(p model.FretPosition) model.Vec2 {
	return model.Vec2{X: in.FingerX(p.Fret), Y: in.StringY(p.String)}
}

// Distance is the physical travel between two finger placements.
func (in *Instrument) Distance(a, b model.FretPosition) float64 {
	return in.FingerPoint(a).Dist(in.FingerPoint(b))
}
