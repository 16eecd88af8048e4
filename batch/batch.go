// Package batch runs the pipeline over a directory of midi files.
package batch

import (
	"fmt"
	"path/filepath"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/model"
	"github.com/fretmotion/fretmotion/pipeline"
	"github.com/fretmotion/fretmotion/util"
)

func CreateFileNumMap(paths []string) model.FileNumToPath {
	res := make(model.FileNumToPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

// ProcessAll runs every midi file under dir (up to maxNum, 0 for all)
// through the pipeline. The output directory is recreated so a sweep
// always produces a self-consistent set. Files that fail are skipped
// and logged; the rest produce results. The file number map is written
// alongside the outputs so later tooling can resolve sources.
func ProcessAll(cfg config.Config, dir string, maxNum int) []model.Result {
	paths := util.GatherAllMidiPaths(dir, maxNum)
	fileNumMap := CreateFileNumMap(paths)
	outDir := config.GetOutDir()
	util.RecreateDir(outDir)

	var results []model.Result
	keys := util.SortedKeys(fileNumMap)
	for i, num := range keys {
		fmt.Printf("Processing %v of %v midi files\n", i+1, len(keys))
		res, err := pipeline.Run(cfg, pipeline.Options{
			File:   fileNumMap[num],
			OutDir: outDir,
		})
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", fileNumMap[num], err)
			continue
		}
		results = append(results, *res)
	}

	util.CreateBinary(filepath.Join(outDir, "fileNumToPath.dat"), fileNumMap)
	return results
}
