// Package pickhand assigns the plucking-hand fingers (p/i/m/a) to the
// strings each committed fretting step excites. It runs its own small
// beam over the steps so finger choices stay consistent across time
// instead of being locally greedy.
package pickhand

import (
	"sort"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/fingering"
	"github.com/fretmotion/fretmotion/guitar"
	"github.com/fretmotion/fretmotion/model"
	"github.com/fretmotion/fretmotion/util"
)

// finger slots in layout order: thumb, index, middle, ring.
var fingerNames = [4]string{"p", "i", "m", "a"}

const (
	repeatThumb  = 10.0
	repeatFinger = 20.0
)

// entry is one retained picking-hand state: where each of the four
// fingers hovers (string index per slot), which fingers plucked at
// this step and the one before, and the chain back through the beam.
type entry struct {
	layout   [4]int
	used     [4]bool
	lastUsed [4]bool
	cost     float64
	parent   int
}

// candidate maps used finger slots to the strings they pluck.
// strings[k] is played by the finger in slot fingers[k].
type candidate struct {
	fingers []int
	strings []int
}

// Assign commits one picking-hand layout per sounding step and one
// pluck event per excited string. Strums reset the hand to the sweep
// posture; sustained steps pluck nothing and are skipped.
func Assign(in *guitar.Instrument, cfg config.Config, steps []fingering.Step) ([]model.PickStep, []model.PluckEvent, float64, error) {
	type stepRef struct {
		step    fingering.Step
		strings []int // excited strings, bass (high index) first
		strum   bool
	}

	var sounding []stepRef
	for _, s := range steps {
		if s.Sustained || len(s.Positions) == 0 {
			continue
		}
		strs := make([]int, 0, len(s.Positions))
		for _, p := range s.Positions {
			strs = append(strs, p.String)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(strs)))
		sounding = append(sounding, stepRef{
			step:    s,
			strings: strs,
			strum:   s.Strategy == model.Strum,
		})
	}
	if len(sounding) == 0 {
		return nil, nil, 0, nil
	}

	width := cfg.BeamWidth
	arena := [][]entry{{{layout: restLayout(in), parent: -1}}}

	for i := range sounding {
		ref := &sounding[i]
		prev := arena[len(arena)-1]

		// anything the four fingers cannot cover is swept instead
		cands := candidatesFor(in, ref.strings)
		if len(cands) == 0 {
			ref.strum = true
		}

		if ref.strum {
			// a strum resets every retained state to the sweep posture
			next := make([]entry, len(prev))
			for pi, pe := range prev {
				next[pi] = entry{
					layout:   strumLayout(in),
					lastUsed: pe.used,
					cost:     pe.cost + layoutDistance(pe.layout, strumLayout(in)),
					parent:   pi,
				}
			}
			arena = append(arena, prune(next, width))
			continue
		}

		var next []entry
		for _, cand := range cands {
			best := entry{parent: -1}
			for pi, pe := range prev {
				e := score(pe, cand)
				e.parent = pi
				if best.parent == -1 || lessEntry(e, best) {
					best = e
				}
			}
			next = append(next, best)
		}
		arena = append(arena, prune(next, width))
	}

	// backtrace the cheapest chain; layer 0 is the rest seed
	chain := make([]entry, len(arena)-1)
	idx := 0
	for layer := len(arena) - 1; layer >= 1; layer-- {
		e := arena[layer][idx]
		chain[layer-1] = e
		idx = e.parent
	}

	var picks []model.PickStep
	var plucks []model.PluckEvent
	for i, ref := range sounding {
		e := chain[i]
		g := ref.step.Group

		var used []string
		if !ref.strum {
			for f := 0; f < 4; f++ {
				if e.used[f] {
					used = append(used, fingerNames[f])
				}
			}
		}
		picks = append(picks, model.PickStep{
			Step:      ref.step.Index,
			Tick:      g.Tick,
			Frame:     g.Frame,
			Used:      used,
			Positions: e.layout,
			Strum:     ref.strum,
		})

		for _, p := range ref.step.Positions {
			name := "strum"
			if !ref.strum {
				name = fingerNames[fingerOn(e, p.String)]
			}
			plucks = append(plucks, model.PluckEvent{
				Tick:   g.Tick,
				Frame:  g.Frame,
				Time:   g.Onset,
				String: p.String,
				Fret:   p.Fret,
				Pitch:  in.OpenPitches[p.String] + p.Fret,
				Finger: name,
			})
		}
	}

	return picks, plucks, chain[len(chain)-1].cost, nil
}

// candidatesFor enumerates ordered finger-to-string assignments: the
// thumb takes the bass side, ring the treble, never crossing. On
// instruments with more than four strings the thumb may double two
// adjacent bass strings.
func candidatesFor(in *guitar.Instrument, strings []int) []candidate {
	n := len(strings)
	var res []candidate

	for _, fingers := range fingerCombos(n) {
		res = append(res, candidate{fingers: fingers, strings: strings})
	}

	if in.NumStrings() > 4 && n >= 2 && n <= 5 &&
		strings[0]-strings[1] == 1 && strings[1] >= 3 {
		// thumb sweeps the two adjacent bass strings
		for _, fingers := range fingerCombos(n - 1) {
			if fingers[0] != 0 {
				continue
			}
			doubled := make([]int, 0, n)
			doubled = append(doubled, 0)
			doubled = append(doubled, fingers...)
			res = append(res, candidate{fingers: doubled, strings: strings})
		}
	}

	return res
}

// fingerCombos lists the strictly increasing slot sequences of length
// n out of p/i/m/a.
func fingerCombos(n int) [][]int {
	if n < 1 || n > 4 {
		return nil
	}
	var res [][]int
	var build func(start int, cur []int)
	build = func(start int, cur []int) {
		if len(cur) == n {
			set := make([]int, n)
			copy(set, cur)
			res = append(res, set)
			return
		}
		for f := start; f < 4; f++ {
			build(f+1, append(cur, f))
		}
	}
	build(0, nil)
	return res
}

// score resolves a candidate against one predecessor: plucking
// fingers land on their strings, idle fingers drift along without
// crossing, and the cost charges string travel plus repeat-use
// penalties (full for back-to-back, half for two steps back).
func score(pe entry, cand candidate) entry {
	layout := pe.layout
	var used [4]bool
	for k, f := range cand.fingers {
		// a doubled thumb hovers over the basser of its two strings
		if !used[f] {
			layout[f] = cand.strings[k]
		}
		used[f] = true
	}

	// idle fingers keep their old string, clamped so slot order never
	// crosses (thumb on the bass side, ring on the treble side)
	for f := 1; f < 4; f++ {
		if !used[f] && layout[f] > layout[f-1] {
			layout[f] = layout[f-1]
		}
	}
	for f := 2; f >= 0; f-- {
		if !used[f] && layout[f] < layout[f+1] {
			layout[f] = layout[f+1]
		}
	}

	cost := pe.cost + layoutDistance(pe.layout, layout)
	for f := 0; f < 4; f++ {
		if !used[f] {
			continue
		}
		punish := repeatFinger
		if f == 0 {
			punish = repeatThumb
		}
		if pe.used[f] {
			cost += punish
		} else if pe.lastUsed[f] {
			cost += punish / 2
		}
	}

	return entry{layout: layout, used: used, lastUsed: pe.used, cost: cost}
}

func layoutDistance(a, b [4]int) float64 {
	var res float64
	for f := 0; f < 4; f++ {
		res += float64(util.Abs(a[f] - b[f]))
	}
	return res
}

func lessEntry(a, b entry) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	for f := 0; f < 4; f++ {
		if a.layout[f] != b.layout[f] {
			return a.layout[f] < b.layout[f]
		}
	}
	return false
}

func prune(entries []entry, width int) []entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return lessEntry(entries[i], entries[j])
	})
	if len(entries) > width {
		entries = entries[:width]
	}
	return entries
}

// fingerOn finds which slot plucked a string in a committed entry.
// The thumb answers for its doubled neighbor too.
func fingerOn(e entry, str int) int {
	for f := 0; f < 4; f++ {
		if e.used[f] && e.layout[f] == str {
			return f
		}
	}
	if e.used[0] && e.layout[0] == str+1 {
		return 0
	}
	for f := 3; f >= 0; f-- {
		if e.used[f] {
			return f
		}
	}
	return 0
}

// restLayout is the neutral posture: thumb over the bass string, the
// others fanned across the treble strings.
func restLayout(in *guitar.Instrument) [4]int {
	n := in.NumStrings()
	return [4]int{n - 1, util.Min(2, n-1), util.Min(1, n-1), 0}
}

// strumLayout is the sweep posture, fingers stacked from the bass
// string down.
func strumLayout(in *guitar.Instrument) [4]int {
	n := in.NumStrings()
	return [4]int{n - 1, util.Max(n-2, 0), util.Max(n-3, 0), util.Max(n-4, 0)}
}
