package model

// Notes are pitch numbers in the C=48 convention used throughout,
// where 48 is the C on the third fret of the fifth string in
// standard tuning. This lines up with raw midi key numbers, so
// ingest carries keys over unchanged apart from the optional
// octave-down and capo transpositions.
type Notes = []int

type NoteEvent struct {
	Pitch    int     `json:"pitch"`
	Onset    float64 `json:"onset"`
	Duration float64 `json:"duration"`
	Velocity int     `json:"velocity"`
	Track    int     `json:"track"`
	Tick     float64 `json:"tick"`
}

// NoteGroup is a set of events sharing one onset. Groups are what
// the optimizer steps over, one committed hand shape per group.
type NoteGroup struct {
	Events []NoteEvent `json:"events"`
	Onset  float64     `json:"onset"`
	Tick   float64     `json:"tick"`
	Frame  float64     `json:"frame"`
}

func (g NoteGroup) Pitches() Notes {
	var res Notes
	for _, e := range g.Events {
		res = append(res, e.Pitch)
	}
	return res
}

type Strategy int

const (
	Melodic Strategy = iota
	Chordal
	Strum
)

func (s Strategy) String() string {
	switch s {
	case Melodic:
		return "melodic"
	case Chordal:
		return "chordal"
	case Strum:
		return "strum"
	}
	return "unknown"
}

type FileNumToPath = map[uint32]string
