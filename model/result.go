package model

type PieceMetadata struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Release string `json:"release"`
	Year    uint   `json:"year"`
}

type OutputFiles struct {
	NotesMap      string `json:"notes_map"`
	LeftRecorder  string `json:"lefthand_recorder"`
	RightRecorder string `json:"righthand_recorder"`
	Animation     string `json:"lefthand_animation"`
	StringFrames  string `json:"guitar_string_recorder"`
	Bundle        string `json:"bundle"`
}

// Result is the run manifest.
type Result struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Tracks     []int          `json:"tracks"`
	NumGroups  int            `json:"num_groups"`
	NumSteps   int            `json:"num_steps"`
	NumFrames  int            `json:"num_frames"`
	NumPlucks  int            `json:"num_plucks"`
	Fallbacks  int            `json:"fallbacks"`
	BestCost   float64        `json:"best_cost"`
	PickCost   float64        `json:"pick_cost"`
	TotalTime  float64        `json:"total_time"`
	Files      OutputFiles    `json:"files"`
	Metadata   *PieceMetadata `json:"metadata,omitempty"`
}
