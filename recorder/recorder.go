// Package recorder accumulates the record streams a run produces and
// writes them to the output directory: the derived note log, both
// hand logs, the string envelopes, the per-frame animation, and the
// combined result bundle.
package recorder

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fretmotion/fretmotion/fingering"
	"github.com/fretmotion/fretmotion/model"
	"github.com/fretmotion/fretmotion/util"
)

// FingerInfo and FingerRecord mirror the JSON shape the animation
// consumer already reads.
type FingerInfo struct {
	StringIndex int    `json:"string_index"`
	Fret        int    `json:"fret"`
	Press       string `json:"press"`
}

type FingerRecord struct {
	FingerIndex int        `json:"finger_index"`
	FingerInfo  FingerInfo `json:"finger_info"`
}

// HandRecord is one committed fretting-hand moment.
type HandRecord struct {
	Step     int            `json:"step"`
	Tick     float64        `json:"real_tick"`
	Frame    float64        `json:"frame"`
	Time     float64        `json:"time"`
	Hand     []FingerRecord `json:"left_hand"`
	UseBarre bool           `json:"use_barre"`
	Position int            `json:"hand_position"`
	Cost     float64        `json:"entropy"`
}

// PickRecord bundles the picking-hand log: per-step layouts plus the
// individual pluck events.
type PickRecord struct {
	Steps  []model.PickStep   `json:"steps"`
	Plucks []model.PluckEvent `json:"plucks"`
}

// Bundle is everything one run produced, gob-encoded next to the JSON
// streams so later tooling can reload a run wholesale.
type Bundle struct {
	Result     model.Result
	Groups     []model.NoteGroup
	Hands      []HandRecord
	Picks      PickRecord
	Strings    []model.StringFrame
	Trajectory model.Trajectory
}

// Recorder accumulates one run's streams. It is purely additive;
// nothing feeds back into earlier pipeline stages.
type Recorder struct {
	id     string
	source string
	tracks []int

	groups     []model.NoteGroup
	hands      []HandRecord
	picks      PickRecord
	strings    []model.StringFrame
	trajectory model.Trajectory
	metadata   *model.PieceMetadata

	bestCost  float64
	pickCost  float64
	fallbacks int
}

func New(source string, tracks []int) *Recorder {
	return &Recorder{
		id:     uuid.NewString(),
		source: source,
		tracks: tracks,
	}
}

func (r *Recorder) ID() string {
	return r.id
}

func (r *Recorder) AddGroups(groups []model.NoteGroup) {
	r.groups = append(r.groups, groups...)
}

func (r *Recorder) AddSteps(res *fingering.Result) {
	for _, s := range res.Steps {
		r.hands = append(r.hands, handRecord(s))
	}
	r.bestCost = res.BestCost
	r.fallbacks = res.Fallbacks
}

func (r *Recorder) AddPicks(picks []model.PickStep, plucks []model.PluckEvent, cost float64) {
	r.picks.Steps = append(r.picks.Steps, picks...)
	r.picks.Plucks = append(r.picks.Plucks, plucks...)
	r.pickCost = cost
}

func (r *Recorder) AddStrings(frames []model.StringFrame) {
	r.strings = append(r.strings, frames...)
}

func (r *Recorder) SetTrajectory(tr model.Trajectory) {
	r.trajectory = tr
}

func (r *Recorder) SetMetadata(m *model.PieceMetadata) {
	r.metadata = m
}

func handRecord(s fingering.Step) HandRecord {
	rec := HandRecord{
		Step:     s.Index,
		Tick:     s.Group.Tick,
		Frame:    s.Group.Frame,
		Time:     s.Group.Onset,
		UseBarre: s.Hand.UseBarre,
		Position: s.Hand.Position,
		Cost:     s.Cost,
	}
	for _, fa := range s.Hand.Fingers {
		rec.Hand = append(rec.Hand, FingerRecord{
			FingerIndex: int(fa.Finger),
			FingerInfo: FingerInfo{
				StringIndex: fa.Pos.String,
				Fret:        fa.Pos.Fret,
				Press:       fa.Press.String(),
			},
		})
	}
	return rec
}

// Write lays the streams out under outDir and returns the manifest:
//
//	midi_info/{stem}_{tracks}_notes.json
//	hand_recorder/{stem}_{tracks}_lefthand.json
//	hand_recorder/{stem}_{tracks}_righthand.json
//	hand_animation/{stem}_{tracks}_animation.json
//	string_recorder/{stem}_{tracks}_strings.json
//	{run id}.dat
func (r *Recorder) Write(outDir string) (*model.Result, error) {
	stem := strings.TrimSuffix(filepath.Base(r.source), filepath.Ext(r.source))
	tag := tracksTag(r.tracks)

	dirs := map[string]string{
		"notes":     filepath.Join(outDir, "midi_info"),
		"left":      filepath.Join(outDir, "hand_recorder"),
		"right":     filepath.Join(outDir, "hand_recorder"),
		"animation": filepath.Join(outDir, "hand_animation"),
		"strings":   filepath.Join(outDir, "string_recorder"),
	}
	for _, dir := range dirs {
		util.EnsureDir(dir)
	}

	files := model.OutputFiles{
		NotesMap:      filepath.Join(dirs["notes"], fmt.Sprintf("%v_%v_notes.json", stem, tag)),
		LeftRecorder:  filepath.Join(dirs["left"], fmt.Sprintf("%v_%v_lefthand.json", stem, tag)),
		RightRecorder: filepath.Join(dirs["right"], fmt.Sprintf("%v_%v_righthand.json", stem, tag)),
		Animation:     filepath.Join(dirs["animation"], fmt.Sprintf("%v_%v_animation.json", stem, tag)),
		StringFrames:  filepath.Join(dirs["strings"], fmt.Sprintf("%v_%v_strings.json", stem, tag)),
		Bundle:        filepath.Join(outDir, r.id+".dat"),
	}

	res := model.Result{
		ID:        r.id,
		Source:    r.source,
		Tracks:    r.tracks,
		NumGroups: len(r.groups),
		NumSteps:  len(r.hands),
		NumFrames: len(r.trajectory.Samples),
		NumPlucks: len(r.picks.Plucks),
		Fallbacks: r.fallbacks,
		BestCost:  r.bestCost,
		PickCost:  r.pickCost,
		Files:     files,
		Metadata:  r.metadata,
	}
	if n := len(r.trajectory.Samples); n > 0 && r.trajectory.FPS > 0 {
		res.TotalTime = float64(n-1) / r.trajectory.FPS
	}

	writes := []struct {
		path string
		data any
	}{
		{files.NotesMap, r.groups},
		{files.LeftRecorder, r.hands},
		{files.RightRecorder, r.picks},
		{files.Animation, r.trajectory},
		{files.StringFrames, r.strings},
	}
	for _, w := range writes {
		if err := util.WriteJSON(w.path, w.data); err != nil {
			return nil, err
		}
	}

	util.CreateBinary(files.Bundle, Bundle{
		Result:     res,
		Groups:     r.groups,
		Hands:      r.hands,
		Picks:      r.picks,
		Strings:    r.strings,
		Trajectory: r.trajectory,
	})

	return &res, nil
}

func tracksTag(tracks []int) string {
	if len(tracks) == 0 {
		return "all"
	}
	parts := make([]string, len(tracks))
	for i, t := range tracks {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, "-")
}
