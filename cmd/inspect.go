package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fretmotion/fretmotion/guitar"
	"github.com/fretmotion/fretmotion/midi"
)

var excerptAt uint64
var excerptNotes int
var excerptOut string

func init() {
	inspectCmd.Flags().Uint64Var(&excerptAt, "excerpt-at", 0, "tick offset an excerpt starts at")
	inspectCmd.Flags().IntVar(&excerptNotes, "excerpt-notes", 0, "write an excerpt with this many note events per track")
	inspectCmd.Flags().StringVar(&excerptOut, "excerpt-out", "excerpt.mid", "excerpt output path")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Prints track, tempo and instrument info for a midi file",
	Long:  `Prints track, tempo and instrument info for a midi file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	mf, err := midi.ReadFile(path)
	if err != nil {
		return err
	}

	tm := midi.GetTempoMap(mf)
	fmt.Printf("ticks per beat: %v\n", tm.TicksPerBeat)
	for _, ch := range tm.Changes {
		fmt.Printf("tempo: %.2f bpm from tick %v (track %v)\n", ch.BPM, ch.Tick, ch.Track)
	}

	groups, err := midi.ExtractGroups(mf, tm, midi.ExtractOptions{Channel: -1})
	if err != nil {
		return err
	}

	notesPerTrack := make(map[int]int)
	var pitches []string
	for _, g := range groups {
		for _, e := range g.Events {
			notesPerTrack[e.Track]++
			if len(pitches) < 8 {
				pitches = append(pitches, guitar.NoteName(e.Pitch))
			}
		}
	}

	for trackNum, events := range mf.Tracks {
		var programs []string
		for _, event := range events {
			var channel, program uint8
			if event.Message.GetProgramChange(&channel, &program) {
				programs = append(programs, midi.GMInstrumentName(program))
			}
		}
		fmt.Printf("track %v: %v events, %v notes", trackNum, len(events), notesPerTrack[trackNum])
		if len(programs) > 0 {
			fmt.Printf(", instruments: %v", strings.Join(programs, ", "))
		}
		fmt.Println()
	}
	fmt.Printf("%v groups, opening notes: %v\n", len(groups), strings.Join(pitches, " "))

	if excerptNotes > 0 {
		clip := midi.Excerpt(mf, excerptAt, excerptNotes)
		if err := clip.WriteFile(excerptOut); err != nil {
			return err
		}
		fmt.Printf("wrote excerpt to %v\n", excerptOut)
	}
	return nil
}
