// Package pipeline chains the stages of one run: midi ingestion,
// fingering search, pick assignment, motion synthesis, and output.
package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bep/debounce"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/fingering"
	"github.com/fretmotion/fretmotion/guitar"
	"github.com/fretmotion/fretmotion/meta"
	"github.com/fretmotion/fretmotion/midi"
	"github.com/fretmotion/fretmotion/model"
	"github.com/fretmotion/fretmotion/motion"
	"github.com/fretmotion/fretmotion/pickhand"
	"github.com/fretmotion/fretmotion/recorder"
)

type Options struct {
	File   string
	Tracks []int
	// Channel filters midi channels; nil accepts every channel.
	Channel *int
	// OutDir defaults to config.GetOutDir().
	OutDir string

	// Progress, when non-nil, receives debounced updates from the
	// optimizer sweep.
	Progress func(done, total int)
}

// Run executes the whole pipeline for one file and returns the run
// manifest.
func Run(cfg config.Config, opts Options) (*model.Result, error) {
	channel := -1
	if opts.Channel != nil {
		channel = *opts.Channel
	}
	if opts.OutDir == "" {
		opts.OutDir = config.GetOutDir()
	}

	mf, err := midi.ReadFile(opts.File)
	if err != nil {
		return nil, err
	}
	tm := midi.GetTempoMap(mf)

	groups, err := midi.ExtractGroups(mf, tm, midi.ExtractOptions{
		Tracks:     opts.Tracks,
		Channel:    channel,
		OctaveDown: cfg.OctaveDown,
		Capo:       cfg.Capo,
		FPS:        cfg.FPS,
	})
	if err != nil {
		return nil, err
	}
	if err := midi.ValidateGroups(groups); err != nil {
		return nil, err
	}

	in, err := guitar.New(cfg)
	if err != nil {
		return nil, err
	}

	progress := func(done, total int) {}
	if opts.Progress != nil {
		deb := debounce.New(250 * time.Millisecond)
		progress = func(done, total int) {
			deb(func() { opts.Progress(done, total) })
			if done == total {
				opts.Progress(done, total)
			}
		}
	}

	fres, err := fingering.Run(in, cfg, groups, progress)
	if err != nil {
		return nil, err
	}

	picks, plucks, pickCost, err := pickhand.Assign(in, cfg, fres.Steps)
	if err != nil {
		return nil, err
	}

	trajectory := motion.Synthesize(in, cfg, fres.Steps)

	rec := recorder.New(opts.File, opts.Tracks)
	rec.AddGroups(groups)
	rec.AddSteps(fres)
	rec.AddPicks(picks, plucks, pickCost)
	rec.AddStrings(recorder.BuildStringFrames(fres.Steps, cfg.FPS))
	rec.SetTrajectory(trajectory)

	base := filepath.Base(opts.File)
	if metas := meta.GetPieceMetadatas([]string{base}); len(metas) > 0 {
		if m, ok := metas[base]; ok {
			rec.SetMetadata(&m)
		}
	}

	res, err := rec.Write(opts.OutDir)
	if err != nil {
		return nil, err
	}

	fmt.Printf("%v: %v groups, %v steps, %v frames, cost %.3f\n",
		base, res.NumGroups, res.NumSteps, res.NumFrames, res.BestCost)
	return res, nil
}
