package fingering

import (
	"sort"

	"github.com/fretmotion/fretmotion/guitar"
	"github.com/fretmotion/fretmotion/model"
)

// candidate is one playable rendition of a note group: the chosen
// string/fret per pitch plus the full hand shape covering them.
type candidate struct {
	positions []model.FretPosition
	hand      model.HandState
}

// foldEvents shifts out-of-range pitches by whole octaves until they
// fit the instrument, then collapses duplicate pitches keeping the
// louder event. Order is by pitch ascending.
func foldEvents(events []model.NoteEvent, min, max int, fold bool) []model.NoteEvent {
	byPitch := make(map[int]model.NoteEvent)
	for _, e := range events {
		if fold {
			for e.Pitch < min {
				e.Pitch += 12
			}
			for e.Pitch > max {
				e.Pitch -= 12
			}
		}
		old, ok := byPitch[e.Pitch]
		if !ok || e.Velocity > old.Velocity {
			byPitch[e.Pitch] = e
		}
	}

	res := make([]model.NoteEvent, 0, len(byPitch))
	for _, e := range byPitch {
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Pitch < res[j].Pitch
	})
	return res
}

// dropLeastSalient removes one note from a sorted chord: octave
// doublings of the outer voices go first, then the quietest note,
// then the lowest pitch. Ties always resolve the same way so the
// optimizer stays deterministic.
func dropLeastSalient(events []model.NoteEvent) []model.NoteEvent {
	if len(events) <= 1 {
		return nil
	}

	lowest := events[0].Pitch
	highest := events[len(events)-1].Pitch

	drop := -1
	for i := 1; i < len(events)-1; i++ {
		p := events[i].Pitch
		if (p-lowest)%12 == 0 || (highest-p)%12 == 0 {
			if drop == -1 || lessSalient(events[i], events[drop]) {
				drop = i
			}
		}
	}
	if drop == -1 {
		for i := range events {
			if drop == -1 || lessSalient(events[i], events[drop]) {
				drop = i
			}
		}
	}

	res := make([]model.NoteEvent, 0, len(events)-1)
	res = append(res, events[:drop]...)
	res = append(res, events[drop+1:]...)
	return res
}

func lessSalient(a, b model.NoteEvent) bool {
	if a.Velocity != b.Velocity {
		return a.Velocity < b.Velocity
	}
	return a.Pitch < b.Pitch
}

// simplifyEvents trims a chord down to limit notes via
// dropLeastSalient, preserving the outer voices as long as possible.
func simplifyEvents(events []model.NoteEvent, limit int) []model.NoteEvent {
	for len(events) > limit {
		events = dropLeastSalient(events)
	}
	return events
}

// positionSets enumerates every combination of one FretPosition per
// pitch that survives the cheap playability cull.
func positionSets(in *guitar.Instrument, pitches model.Notes) ([][]model.FretPosition, error) {
	perPitch := make([][]model.FretPosition, len(pitches))
	for i, p := range pitches {
		cands := in.CandidatePositions(p)
		if len(cands) == 0 {
			return nil, ErrUnplayablePitch
		}
		perPitch[i] = cands
	}

	var res [][]model.FretPosition
	current := make([]model.FretPosition, 0, len(pitches))

	var build func(i int)
	build = func(i int) {
		if i == len(perPitch) {
			if in.PositionSetPlayable(current) {
				set := make([]model.FretPosition, len(current))
				copy(set, current)
				res = append(res, set)
			}
			return
		}
		for _, p := range perPitch[i] {
			current = append(current, p)
			build(i + 1)
			current = current[:len(current)-1]
		}
	}
	build(0)

	return res, nil
}

// assignmentSets enumerates finger choices for one position set. Open
// strings carry the empty-finger marker; fretted notes try each of
// the four fretting fingers. Anatomically impossible combinations are
// filtered out.
func assignmentSets(positions []model.FretPosition) [][]model.FingerAssignment {
	var res [][]model.FingerAssignment
	current := make([]model.FingerAssignment, 0, len(positions))

	var build func(i int)
	build = func(i int) {
		if i == len(positions) {
			if validAssignment(current) {
				set := make([]model.FingerAssignment, len(current))
				copy(set, current)
				res = append(res, set)
			}
			return
		}
		pos := positions[i]
		if pos.Fret == 0 {
			current = append(current, model.FingerAssignment{Finger: model.FingerEmpty, Pos: pos})
			build(i + 1)
			current = current[:len(current)-1]
			return
		}
		for f := model.FingerIndex; f <= model.FingerPinky; f++ {
			current = append(current, model.FingerAssignment{Finger: f, Pos: pos, Press: model.Pressed})
			build(i + 1)
			current = current[:len(current)-1]
		}
	}
	build(0)

	return res
}

// validAssignment applies the anatomical rules: one fret per finger,
// finger order matching fret order, barres only for the index finger
// (or a small pinky partial barre on adjacent strings), and stretch
// limits between neighboring fingers.
func validAssignment(fas []model.FingerAssignment) bool {
	fretOf := make(map[model.Finger]int)
	stringsOf := make(map[model.Finger][]int)

	for _, fa := range fas {
		if fa.Finger == model.FingerEmpty {
			continue
		}
		if old, ok := fretOf[fa.Finger]; ok && old != fa.Pos.Fret {
			return false
		}
		fretOf[fa.Finger] = fa.Pos.Fret
		stringsOf[fa.Finger] = append(stringsOf[fa.Finger], fa.Pos.String)

		// a finger cannot reach below its own number on the neck
		if int(fa.Finger) > fa.Pos.Fret+1 {
			return false
		}
	}
	if len(fretOf) == 0 {
		return true
	}

	for f, strs := range stringsOf {
		if len(strs) == 1 {
			continue
		}
		if f == model.FingerIndex {
			continue // full barre
		}
		if f != model.FingerPinky || len(strs) > 3 {
			return false
		}
		minS, maxS := strs[0], strs[0]
		for _, s := range strs {
			if s < minS {
				minS = s
			}
			if s > maxS {
				maxS = s
			}
		}
		if maxS-minS != len(strs)-1 {
			return false // pinky partial barre must be adjacent strings
		}
	}

	used := make([]model.Finger, 0, len(fretOf))
	minFret := 0
	for f, fret := range fretOf {
		used = append(used, f)
		if minFret == 0 || fret < minFret {
			minFret = fret
		}
	}
	sort.Slice(used, func(i, j int) bool { return used[i] < used[j] })

	stretch := 1
	if minFret >= 10 {
		stretch = 2 // frets narrow up the neck
	}
	for i := 0; i < len(used)-1; i++ {
		a, b := used[i], used[i+1]
		diff := fretOf[b] - fretOf[a]
		if diff < 0 {
			return false
		}
		if diff > int(b-a)-1+stretch {
			return false
		}
	}

	return true
}

// buildHand merges raw assignments into a full hand shape: barre
// press states, the hand position, and rest placements for fingers
// that sit this group out.
func buildHand(in *guitar.Instrument, positions []model.FretPosition, fas []model.FingerAssignment) model.HandState {
	type merged struct {
		fret    int
		strings []int
	}
	byFinger := make(map[model.Finger]*merged)
	var opens []model.FingerAssignment

	for _, fa := range fas {
		if fa.Finger == model.FingerEmpty {
			opens = append(opens, fa)
			continue
		}
		m := byFinger[fa.Finger]
		if m == nil {
			m = &merged{fret: fa.Pos.Fret}
			byFinger[fa.Finger] = m
		}
		m.strings = append(m.strings, fa.Pos.String)
	}

	position := 1
	minFret, minFinger := 0, model.Finger(0)
	for f, m := range byFinger {
		if minFret == 0 || m.fret < minFret || (m.fret == minFret && f < minFinger) {
			minFret = m.fret
			minFinger = f
		}
	}
	if idx, ok := byFinger[model.FingerIndex]; ok && idx.fret > 1 {
		position = idx.fret
	} else if minFret > 0 {
		if p := minFret - (int(minFinger) - 1); p > 1 {
			position = p
		}
	}

	useBarre := false
	var fingers []model.FingerAssignment
	for f := model.FingerIndex; f <= model.FingerPinky; f++ {
		m, ok := byFinger[f]
		if !ok {
			continue
		}
		press := model.Pressed
		maxS := m.strings[0]
		for _, s := range m.strings {
			if s > maxS {
				maxS = s
			}
		}
		switch {
		case len(m.strings) > 1 && f == model.FingerIndex:
			press = model.Barre
			useBarre = true
		case len(m.strings) == 2 && f == model.FingerPinky:
			press = model.PartialBarre2Strings
		case len(m.strings) == 3 && f == model.FingerPinky:
			press = model.PartialBarre3Strings
		}
		fingers = append(fingers, model.FingerAssignment{
			Finger: f,
			Pos:    model.FretPosition{String: maxS, Fret: m.fret},
			Press:  press,
		})
	}
	fingers = append(fingers, opens...)

	// idle fingers rest over the current position
	restString := restStringFor(in, positions)
	for f := model.FingerIndex; f <= model.FingerPinky; f++ {
		if _, ok := byFinger[f]; ok {
			continue
		}
		fret := position + int(f) - 1
		if fret > in.Frets {
			fret = in.Frets
		}
		fingers = append(fingers, model.FingerAssignment{
			Finger: f,
			Pos:    model.FretPosition{String: restString, Fret: fret},
			Press:  model.Open,
		})
	}

	return model.HandState{Fingers: fingers, Position: position, UseBarre: useBarre}
}

// restStringFor picks where idle fingers hover: the midpoint of the
// played strings, or a default middle string when nothing is fretted.
func restStringFor(in *guitar.Instrument, positions []model.FretPosition) int {
	if len(positions) == 0 {
		if in.NumStrings() > 5 {
			return 2
		}
		return 1
	}
	minS, maxS := positions[0].String, positions[0].String
	for _, p := range positions {
		if p.String < minS {
			minS = p.String
		}
		if p.String > maxS {
			maxS = p.String
		}
	}
	return (minS + maxS) / 2
}

// RestHand is the neutral shape the optimizer starts from and falls
// back to: all fingers lifted over one fret each at the given
// position.
func RestHand(in *guitar.Instrument, position int) model.HandState {
	restString := 1
	if in.NumStrings() > 5 {
		restString = 2
	}
	var fingers []model.FingerAssignment
	for f := model.FingerIndex; f <= model.FingerPinky; f++ {
		fret := position + int(f) - 1
		if fret > in.Frets {
			fret = in.Frets
		}
		fingers = append(fingers, model.FingerAssignment{
			Finger: f,
			Pos:    model.FretPosition{String: restString, Fret: fret},
			Press:  model.Open,
		})
	}
	return model.HandState{Fingers: fingers, Position: position}
}

// candidatesForGroup generates every feasible hand shape for a chord,
// deduplicated by fingerprint and ordered deterministically.
func candidatesForGroup(in *guitar.Instrument, pitches model.Notes) ([]candidate, error) {
	sets, err := positionSets(in, pitches)
	if err != nil {
		return nil, err
	}

	var res []candidate
	seen := make(map[string]bool)
	for _, positions := range sets {
		for _, fas := range assignmentSets(positions) {
			if !in.Feasible(fas) {
				continue
			}
			hand := buildHand(in, positions, fas)
			fp := hand.Fingerprint()
			if seen[fp] {
				continue
			}
			seen[fp] = true
			res = append(res, candidate{positions: positions, hand: hand})
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].hand.Fingerprint() < res[j].hand.Fingerprint()
	})
	return res, nil
}
