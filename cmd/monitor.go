package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"

	"github.com/fretmotion/fretmotion/guitar"
)

func init() {
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Listens to a live midi input and prints playable positions",
	Long:  `Listens to a live midi input and prints playable positions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitor()
	},
}

func monitor() error {
	defer midi.CloseDriver()
	in, err := midi.InPort(0)
	if err != nil {
		return fmt.Errorf("no midi input found: %w", err)
	}

	instrument, err := guitar.New(cfg)
	if err != nil {
		return err
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		if !msg.GetNoteStart(&ch, &key, &vel) {
			return
		}
		pitch := int(key)
		positions := instrument.CandidatePositions(pitch)
		if len(positions) == 0 {
			fmt.Printf("%v: not playable\n", guitar.NoteName(pitch))
			return
		}
		fmt.Printf("%v:", guitar.NoteName(pitch))
		for _, p := range positions {
			fmt.Printf(" s%vf%v", p.String, p.Fret)
		}
		fmt.Println()
	})
	if err != nil {
		return err
	}
	defer stop()

	fmt.Println("listening, ctrl-c to quit")
	for {
		time.Sleep(time.Second)
	}
}
