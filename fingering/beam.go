package fingering

import (
	"sort"

	"github.com/fretmotion/fretmotion/model"
)

// entry is one retained search state: the hand committed at this
// step, its cumulative cost, and the index of its predecessor in the
// previous step's slice. The arena of per-step entry slices replaces
// the recursive search and per-path history copies.
type entry struct {
	positions []model.FretPosition
	hand      model.HandState
	cost      float64
	movement  float64 // cumulative physical travel, first tie-breaker
	parent    int
	sustained bool
}

type arena struct {
	width int
	steps [][]entry
}

func newArena(width int) *arena {
	return &arena{width: width}
}

func (a *arena) last() []entry {
	if len(a.steps) == 0 {
		return nil
	}
	return a.steps[len(a.steps)-1]
}

// push prunes a scored generation to the beam width. Ordering is
// fully deterministic: cumulative cost, then total movement, then the
// lowest top fret, then the lowest string index sum, then the shape
// fingerprint.
func (a *arena) push(entries []entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return lessEntry(entries[i], entries[j])
	})
	if len(entries) > a.width {
		entries = entries[:a.width]
	}
	a.steps = append(a.steps, entries)
}

func lessEntry(a, b entry) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.movement != b.movement {
		return a.movement < b.movement
	}
	am, bm := maxFret(a.positions), maxFret(b.positions)
	if am != bm {
		return am < bm
	}
	as, bs := stringSum(a.positions), stringSum(b.positions)
	if as != bs {
		return as < bs
	}
	return a.hand.Fingerprint() < b.hand.Fingerprint()
}

func maxFret(positions []model.FretPosition) int {
	res := 0
	for _, p := range positions {
		if p.Fret > res {
			res = p.Fret
		}
	}
	return res
}

func stringSum(positions []model.FretPosition) int {
	res := 0
	for _, p := range positions {
		res += p.String
	}
	return res
}

// backtrace walks parent indexes from the best terminal entry back to
// the first committed step.
func (a *arena) backtrace() []entry {
	if len(a.steps) == 0 {
		return nil
	}

	res := make([]entry, len(a.steps))
	idx := 0 // entries are pushed sorted, best first
	for step := len(a.steps) - 1; step >= 0; step-- {
		e := a.steps[step][idx]
		res[step] = e
		idx = e.parent
	}
	return res
}
