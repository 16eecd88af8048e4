package fingering

import (
	"fmt"
	"sync"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/guitar"
	"github.com/fretmotion/fretmotion/model"
)

// Step is one committed moment of the fretting hand: the note group
// it plays, the chosen string/fret per note, and the full hand shape.
// A sustained step repeats the previous shape without sounding
// anything (the sustain fallback).
type Step struct {
	Index     int
	Group     model.NoteGroup
	Strategy  model.Strategy
	Positions []model.FretPosition
	Hand      model.HandState
	Cost      float64 // cumulative at this step
	Sustained bool
}

// Result is the committed fingering for a whole piece.
type Result struct {
	Steps     []Step
	BestCost  float64
	Fallbacks int
}

// Run sweeps the beam over the time-ordered note groups and commits
// the single lowest-cumulative-cost path. An empty group list yields
// an empty result without error. Progress, when non-nil, is called
// once per processed group.
func Run(in *guitar.Instrument, cfg config.Config, groups []model.NoteGroup, progress func(done, total int)) (*Result, error) {
	if len(groups) == 0 {
		return &Result{}, nil
	}

	// work is mutable: the arpeggiate fallback splits a group into
	// sequential single-note groups in place.
	work := make([]model.NoteGroup, len(groups))
	copy(work, groups)

	a := newArena(cfg.BeamWidth)
	a.steps = append(a.steps, []entry{{hand: RestHand(in, 1), parent: -1}})

	var fallbacks int

	for i := 0; i < len(work); i++ {
		g := work[i]
		events := foldEvents(g.Events, in.MinPitch(), in.MaxPitch(), cfg.OctaveFold)
		events = simplifyEvents(events, in.NumStrings())

		cands, dropped, err := candidates(in, cfg, g, events)
		if err != nil {
			return nil, err
		}
		fallbacks += dropped

		if len(cands) == 0 {
			fallbacks++
			switch cfg.Fallback {
			case config.FallbackArpeggiate:
				if len(events) > 1 {
					fmt.Printf("no fingering for group at tick %v, arpeggiating %v notes\n", g.Tick, len(events))
					work = arpeggiate(work, i, g, events, cfg.FPS)
					i--
					continue
				}
				// a single note cannot be split further
				fallthrough
			case config.FallbackSustain:
				fmt.Printf("no fingering for group at tick %v, sustaining previous shape\n", g.Tick)
				a.push(sustainEntries(a.last()))
				if progress != nil {
					progress(i+1, len(work))
				}
				continue
			default:
				return nil, fmt.Errorf("%w: group at tick %v", ErrInfeasibleSpan, g.Tick)
			}
		}

		a.push(scoreGeneration(in, cfg, a.last(), cands))
		if progress != nil {
			progress(i+1, len(work))
		}
	}

	path := a.backtrace()[1:] // drop the seed shape
	res := &Result{Fallbacks: fallbacks}
	for i, e := range path {
		g := work[i]
		res.Steps = append(res.Steps, Step{
			Index:     i,
			Group:     g,
			Strategy:  strategyFor(g, e),
			Positions: e.positions,
			Hand:      e.hand,
			Cost:      e.cost,
			Sustained: e.sustained,
		})
	}
	if len(path) > 0 {
		res.BestCost = path[len(path)-1].cost
	}
	return res, nil
}

// candidates produces the feasible hand shapes for one group,
// applying the drop fallback when the chord as written has none.
// The second return value counts the notes dropped on the way to a
// playable subset.
func candidates(in *guitar.Instrument, cfg config.Config, g model.NoteGroup, events []model.NoteEvent) ([]candidate, int, error) {
	dropped := 0
	for len(events) > 0 {
		pitches := make(model.Notes, len(events))
		for i, e := range events {
			pitches[i] = e.Pitch
		}

		cands, err := candidatesForGroup(in, pitches)
		if err != nil {
			if cfg.Fallback == config.FallbackDrop && len(events) > 1 {
				fmt.Printf("dropping unreachable pitch from group at tick %v\n", g.Tick)
				events = dropLeastSalient(events)
				dropped++
				continue
			}
			return nil, dropped, fmt.Errorf("%w: group at tick %v", err, g.Tick)
		}
		if len(cands) > 0 {
			return cands, dropped, nil
		}
		if cfg.Fallback != config.FallbackDrop || len(events) == 1 {
			return nil, dropped, nil
		}
		fmt.Printf("group at tick %v exceeds the hand span, dropping a note\n", g.Tick)
		events = dropLeastSalient(events)
		dropped++
	}
	return nil, dropped, nil
}

// scoreGeneration evaluates every (predecessor, candidate) pair on a
// bounded worker pool; each worker owns a disjoint slice of the
// result so the only synchronization is the closing barrier. The
// committing goroutine prunes after the barrier.
func scoreGeneration(in *guitar.Instrument, cfg config.Config, prev []entry, cands []candidate) []entry {
	scored := make([]entry, len(cands))

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
			for ci := range jobs {
				scored[ci] = bestParent(in, cfg.Weights, prev, cands[ci])
			}
		}()
	}
	for ci := range cands {
		jobs <- ci
	}
	close(jobs)
	wg.Wait()

	return scored
}

// bestParent links a candidate to the retained predecessor that
// reaches it cheapest. Ties go to the earlier (better-ranked) parent.
func bestParent(in *guitar.Instrument, w config.Weights, prev []entry, cand candidate) entry {
	best := entry{parent: -1}
	for pi, pe := range prev {
		hand := resolveHand(in, pe.hand, cand)
		cost, movement := stepCost(in, w, pe.hand, hand)
		total := pe.cost + cost
		if best.parent == -1 || total < best.cost ||
			(total == best.cost && pe.movement+movement < best.movement) {
			best = entry{
				positions: cand.positions,
				hand:      hand,
				cost:      total,
				movement:  pe.movement + movement,
				parent:    pi,
			}
		}
	}
	return best
}

// sustainEntries repeats every retained shape unchanged, at zero
// cost, so the beam survives a group nothing can play.
func sustainEntries(prev []entry) []entry {
	res := make([]entry, len(prev))
	for i, pe := range prev {
		res[i] = entry{
			hand:      pe.hand,
			cost:      pe.cost,
			movement:  pe.movement,
			parent:    i,
			sustained: true,
		}
	}
	return res
}

// arpeggiate replaces work[i] with one single-note group per event,
// spread evenly across the chord's duration.
func arpeggiate(work []model.NoteGroup, i int, g model.NoteGroup, events []model.NoteEvent, fps float64) []model.NoteGroup {
	span := events[0].Duration
	for _, e := range events {
		if e.Duration < span {
			span = e.Duration
		}
	}
	if span <= 0 {
		span = 0.25
	}
	step := span / float64(len(events))

	subs := make([]model.NoteGroup, len(events))
	for k, e := range events {
		offset := float64(k) * step
		e.Onset = g.Onset + offset
		e.Duration = step
		subs[k] = model.NoteGroup{
			Events: []model.NoteEvent{e},
			Onset:  g.Onset + offset,
			Tick:   g.Tick,
			Frame:  g.Frame + offset*fps,
		}
	}

	res := make([]model.NoteGroup, 0, len(work)+len(subs)-1)
	res = append(res, work[:i]...)
	res = append(res, subs...)
	res = append(res, work[i+1:]...)
	return res
}

func strategyFor(g model.NoteGroup, e entry) model.Strategy {
	if len(e.positions) > 4 {
		return model.Strum
	}
	if len(g.Events) > 1 {
		return model.Chordal
	}
	return model.Melodic
}
