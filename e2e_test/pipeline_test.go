//go:build e2e
// +build e2e

package e2e_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/pipeline"
	"github.com/fretmotion/fretmotion/recorder"
	"github.com/fretmotion/fretmotion/util"
)

var midiPath string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "fretmotion-e2e")
	if err != nil {
		panic(err.Error())
	}

	midiPath = filepath.Join(dir, "triad.mid")
	writeTriad(midiPath)
	os.Setenv("FRETMOTION_OUT", filepath.Join(dir, "out"))

	exitVal := m.Run()

	os.RemoveAll(dir)
	os.Exit(exitVal)
}

// writeTriad renders C, E and G quarter notes at 120bpm.
func writeTriad(path string) {
	s := smf.New()

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	delta := uint32(0)
	for _, key := range []uint8{60, 64, 67} {
		tr.Add(delta, midi.NoteOn(0, key, 90))
		tr.Add(480, midi.NoteOff(0, key))
		delta = 0
	}
	tr.Close(0)
	s.Add(tr)

	if err := s.WriteFile(path); err != nil {
		panic(err.Error())
	}
}

func TestTriadPipelineE2E(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	res, err := pipeline.Run(cfg, pipeline.Options{File: midiPath})
	assert.NoError(err)
	if err != nil {
		return
	}

	assert.Equal(res.NumGroups, 3)
	assert.Equal(res.NumSteps, 3)
	assert.Equal(res.NumPlucks, 3)
	assert.Equal(res.Fallbacks, 0)
	assert.Greater(res.NumFrames, 0)

	for _, path := range []string{
		res.Files.NotesMap, res.Files.LeftRecorder, res.Files.RightRecorder,
		res.Files.Animation, res.Files.StringFrames, res.Files.Bundle,
	} {
		_, err := os.Stat(path)
		assert.NoError(err, path)
	}

	bundle := util.ReadBinaryOrPanic[recorder.Bundle](res.Files.Bundle)
	assert.Len(bundle.Hands, 3)
	assert.Len(bundle.Picks.Plucks, 3)

	// every committed step sounds exactly the requested pitch
	wanted := []int{60, 64, 67}
	for i, pluck := range bundle.Picks.Plucks {
		assert.Equal(pluck.Pitch, wanted[i])
	}

	// the sampled trajectory never exceeds the velocity bound
	maxStep := cfg.MaxVelocity / cfg.FPS
	samples := bundle.Trajectory.Samples
	for i := 1; i < len(samples); i++ {
		assert.LessOrEqual(samples[i-1].Palm.Dist(samples[i].Palm), maxStep+1e-9)
	}
}

func TestTriadPipelineDeterministicE2E(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	first, err := pipeline.Run(cfg, pipeline.Options{File: midiPath})
	assert.NoError(err)
	second, err := pipeline.Run(cfg, pipeline.Options{File: midiPath})
	assert.NoError(err)
	if first == nil || second == nil {
		return
	}

	b1 := util.ReadBinaryOrPanic[recorder.Bundle](first.Files.Bundle)
	b2 := util.ReadBinaryOrPanic[recorder.Bundle](second.Files.Bundle)
	assert.Equal(b1.Hands, b2.Hands)
	assert.Equal(b1.Picks, b2.Picks)
	assert.Equal(b1.Strings, b2.Strings)
	assert.Equal(b1.Trajectory, b2.Trajectory)
}
