package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fretmotion/fretmotion/batch"
	"github.com/fretmotion/fretmotion/config"
)

var batchMax int

func init() {
	batchCmd.Flags().IntVar(&batchMax, "max", 0, "max number of files to process, 0 for all")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Runs the pipeline on every midi file in a directory",
	Long:  `Runs the pipeline on every midi file in a directory, FRETMOTION_MEDIA when omitted`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		} else {
			dir = config.GetMediaDir()
		}
		results := batch.ProcessAll(cfg, dir, batchMax)

		var steps, frames int
		for _, r := range results {
			steps += r.NumSteps
			frames += r.NumFrames
		}
		fmt.Printf("Processed %v files: %v steps, %v frames\n", len(results), steps, frames)
	},
}
