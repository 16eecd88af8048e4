package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/fretmotion/fretmotion/config"
	"github.com/fretmotion/fretmotion/recorder"
	"github.com/fretmotion/fretmotion/util"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarizes the runs in the output directory",
	Long:  `Summarizes the runs in the output directory`,
	Run: func(cmd *cobra.Command, args []string) {
		report()
	},
}

type runsReport struct {
	numRuns   int64
	numSteps  int64
	numFrames int64
	numPlucks int64
	fallbacks int64
	numBytes  int64
	costs     []float64
}

func analyzeRuns(outDir string) runsReport {
	var report runsReport

	files, err := os.ReadDir(outDir)
	if err != nil {
		panic("Could not read dir because: " + err.Error())
	}

	r, _ := regexp.Compile("^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}.dat$")
	for _, file := range files {
		filename := file.Name()
		if !r.MatchString(filename) {
			continue
		}
		path := filepath.Join(outDir, filename)

		f := util.OpenFileOrPanic(path)
		stats, err := f.Stat()
		if err != nil {
			panic("Couldn't get stats of file: " + err.Error())
		}
		report.numBytes += stats.Size()
		f.Close()

		bundle := util.ReadBinaryOrPanic[recorder.Bundle](path)
		report.numRuns += 1
		report.numSteps += int64(bundle.Result.NumSteps)
		report.numFrames += int64(bundle.Result.NumFrames)
		report.numPlucks += int64(bundle.Result.NumPlucks)
		report.fallbacks += int64(bundle.Result.Fallbacks)
		report.costs = append(report.costs, bundle.Result.BestCost)
	}

	return report
}

func report() {
	outDir := config.GetOutDir()
	r := analyzeRuns(outDir)

	fmt.Printf("runs: %v\n", r.numRuns)
	fmt.Printf("steps: %v\n", r.numSteps)
	fmt.Printf("frames: %v\n", r.numFrames)
	fmt.Printf("plucks: %v\n", r.numPlucks)
	fmt.Printf("fallbacks: %v\n", r.fallbacks)
	fmt.Printf("bundle bytes: %v\n", r.numBytes)
	if r.numRuns > 0 {
		fmt.Printf("avg cost per run: %.3f\n", util.Sum(r.costs)/float64(r.numRuns))
	}
}
