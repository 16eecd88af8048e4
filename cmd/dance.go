package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fretmotion/fretmotion/pipeline"
)

var danceTracks []int
var danceChannel int

func init() {
	danceCmd.Flags().IntSliceVar(&danceTracks, "tracks", nil, "track indexes to use, all when empty")
	danceCmd.Flags().IntVar(&danceChannel, "channel", -1, "midi channel filter, -1 for all")
	rootCmd.AddCommand(danceCmd)
}

var danceCmd = &cobra.Command{
	Use:   "dance <file>",
	Short: "Runs the pipeline on one midi file",
	Long:  `Runs the pipeline on one midi file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := pipeline.Options{
			File:   args[0],
			Tracks: danceTracks,
			Progress: func(done, total int) {
				fmt.Printf("Optimizing %v of %v groups\n", done, total)
			},
		}
		if danceChannel >= 0 {
			opts.Channel = &danceChannel
		}
		res, err := pipeline.Run(cfg, opts)
		if err != nil {
			return err
		}

		fmt.Printf("Run %v finished\n", res.ID)
		fmt.Printf("  notes:     %v\n", res.Files.NotesMap)
		fmt.Printf("  left hand: %v\n", res.Files.LeftRecorder)
		fmt.Printf("  right hand: %v\n", res.Files.RightRecorder)
		fmt.Printf("  animation: %v\n", res.Files.Animation)
		fmt.Printf("  strings:   %v\n", res.Files.StringFrames)
		return nil
	},
}
