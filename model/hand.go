package model

import (
	"fmt"
	"sort"
)

type Finger int

const (
	FingerEmpty  Finger = -1
	FingerThumb  Finger = 0
	FingerIndex  Finger = 1
	FingerMiddle Finger = 2
	FingerRing   Finger = 3
	FingerPinky  Finger = 4
)

func (f Finger) Name() string {
	switch f {
	case FingerThumb:
		return "Thumb"
	case FingerIndex:
		return "Index"
	case FingerMiddle:
		return "Middle"
	case FingerRing:
		return "Ring"
	case FingerPinky:
		return "Pinky"
	}
	return "Empty"
}

type PressState int

const (
	Open PressState = iota
	Pressed
	Barre
	PartialBarre2Strings
	PartialBarre3Strings
	Keep
)

func (p PressState) String() string {
	switch p {
	case Pressed:
		return "Pressed"
	case Barre:
		return "Barre"
	case PartialBarre2Strings:
		return "Partial_barre_2_strings"
	case PartialBarre3Strings:
		return "Partial_barre_3_strings"
	case Keep:
		return "Keep"
	}
	return "Open"
}

// Sounding reports whether the finger excites its string, as opposed
// to merely resting on or hovering over it.
func (p PressState) Sounding() bool {
	return p != Open && p != Keep
}

// FretPosition is a string/fret pair. String 0 is the highest
// sounding string and fret 0 is the open string.
type FretPosition struct {
	String int `json:"string_index"`
	Fret   int `json:"fret"`
}

// FingerAssignment places one finger. FingerEmpty marks an open
// string entry that no finger presses.
type FingerAssignment struct {
	Finger Finger       `json:"finger_index"`
	Pos    FretPosition `json:"position"`
	Press  PressState   `json:"press"`
}

// HandState is a full fretting-hand shape: one entry per fretting
// finger plus any open-string markers. Position is the fret under
// the index finger.
type HandState struct {
	Fingers  []FingerAssignment `json:"fingers"`
	Position int                `json:"position"`
	UseBarre bool               `json:"use_barre"`
}

func (h HandState) FindFinger(f Finger) (FingerAssignment, bool) {
	for _, fa := range h.Fingers {
		if fa.Finger == f {
			return fa, true
		}
	}
	return FingerAssignment{}, false
}

// Fingerprint is a stable identity for a shape, usable as a sort and
// dedup key.
func (h HandState) Fingerprint() string {
	fas := make([]FingerAssignment, len(h.Fingers))
	copy(fas, h.Fingers)
	sort.SliceStable(fas, func(i, j int) bool {
		if fas[i].Finger != fas[j].Finger {
			return fas[i].Finger < fas[j].Finger
		}
		return fas[i].Pos.String < fas[j].Pos.String
	})
	var res string
	for i, fa := range fas {
		res += fmt.Sprintf("%d:%d:%d:%d", fa.Finger, fa.Pos.String, fa.Pos.Fret, fa.Press)
		if i < len(fas)-1 {
			res += "-"
		}
	}
	return res
}
