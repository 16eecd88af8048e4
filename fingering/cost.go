package fingering

import (
	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/guitar"
	"github.com/fretmotion/fretmotion/model"
)

// stepCost scores the transition from one committed hand shape to a
// candidate. The returned movement is the raw physical travel in cm,
// kept separately because it is the first tie-breaker.
func stepCost(in *guitar.Instrument, w config.Weights, prev, next model.HandState) (cost, movement float64) {
	// a position shift lifts every pressed finger first
	if prev.Position != next.Position {
		for _, fa := range prev.Fingers {
			if fa.Finger > 0 && fa.Press.Sounding() {
				cost += w.Lift
			}
		}
	}

	for f := model.FingerIndex; f <= model.FingerPinky; f++ {
		old, okOld := prev.FindFinger(f)
		cur, okCur := next.FindFinger(f)
		if !okOld || !okCur {
			continue
		}
		d := in.Distance(old.Pos, cur.Pos)
		movement += d
		cost += w.Movement * d
		if d > 0 && cur.Press.Sounding() {
			cost += w.Lift
		}
		if old.Pos.String != cur.Pos.String {
			cost += w.StringChange
		}
		if d > 0 && old.Press.Sounding() && cur.Press.Sounding() {
			cost += w.Reuse
		}
	}

	for _, fa := range next.Fingers {
		if fa.Finger == model.FingerEmpty {
			cost -= w.OpenBonus
		}
	}

	return cost, movement
}

// resolveHand adapts a candidate to the shape it follows: a chord
// with no fretted note keeps the previous hand position instead of
// snapping back to the nut.
func resolveHand(in *guitar.Instrument, prev model.HandState, cand candidate) model.HandState {
	for _, fa := range cand.hand.Fingers {
		if fa.Finger > 0 && fa.Press.Sounding() {
			return cand.hand
		}
	}
	if prev.Position == cand.hand.Position {
		return cand.hand
	}

	hand := RestHand(in, prev.Position)
	for _, fa := range cand.hand.Fingers {
		if fa.Finger == model.FingerEmpty {
			hand.Fingers = append(hand.Fingers, fa)
		}
	}
	return hand
}
