package model

// PluckEvent marks one string excitation by the picking hand.
type PluckEvent struct {
	Tick   float64 `json:"tick"`
	Frame  float64 `json:"frame"`
	Time   float64 `json:"time"`
	String int     `json:"string_index"`
	Fret   int     `json:"fret"`
	Pitch  int     `json:"pitch"`
	Finger string  `json:"finger"`
}

// PickStep is the picking-hand layout committed for one sounding
// step: which of p/i/m/a pluck, and which string each finger sits
// over. Positions is indexed p, i, m, a.
type PickStep struct {
	Step      int      `json:"step"`
	Tick      float64  `json:"real_tick"`
	Frame     float64  `json:"frame"`
	Used      []string `json:"used_fingers"`
	Positions [4]int   `json:"right_finger_positions"`
	Strum     bool     `json:"strum"`
}

// StringFrame is one point of a plucked string's influence envelope.
// Field names follow the animation consumer.
type StringFrame struct {
	Frame     float64 `json:"frame"`
	String    int     `json:"stringIndex"`
	Fret      int     `json:"fret"`
	Influence float64 `json:"influence"`
}
