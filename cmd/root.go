package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fretmotion/fretmotion/config"
)

var cfgPath string
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "fretmotion",
	Short: "Guitar fingering and hand motion synthesis",
	Long:  `Turns midi files into playable guitar fingerings and animatable hand motion.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file path")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
