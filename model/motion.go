package model

import "math"

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Dist(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

type KeyframeKind int

const (
	BeatFrame KeyframeKind = iota
	HoldFrame
	LiftFrame
	ReadyFrame
	IdleFrame
)

func (k KeyframeKind) String() string {
	switch k {
	case HoldFrame:
		return "hold"
	case LiftFrame:
		return "lift"
	case ReadyFrame:
		return "ready"
	case IdleFrame:
		return "idle"
	}
	return "beat"
}

// Keyframe is a timestamped hand shape. Step is the index of the
// committed step the keyframe belongs to.
type Keyframe struct {
	Frame float64      `json:"frame"`
	Time  float64      `json:"time"`
	Kind  KeyframeKind `json:"kind"`
	Step  int          `json:"step"`
	Hand  HandState    `json:"hand"`
}

// FingerPose is one fingertip in fretboard-plane coordinates, cm.
// X runs from the nut toward the bridge, Y across the strings.
type FingerPose struct {
	Pos     Vec2 `json:"pos"`
	Pressed bool `json:"pressed"`
}

// FrameSample is one fixed-rate animation frame.
type FrameSample struct {
	Frame   int           `json:"frame"`
	Time    float64       `json:"time"`
	Palm    Vec2          `json:"palm"`
	Fingers [4]FingerPose `json:"fingers"`
}

// Trajectory is the synthesized motion: the sparse keyframes and the
// dense fixed-rate samples derived from them. Sample timestamps are
// strictly increasing.
type Trajectory struct {
	FPS       float64       `json:"fps"`
	Keyframes []Keyframe    `json:"keyframes"`
	Samples   []FrameSample `json:"samples"`
}
