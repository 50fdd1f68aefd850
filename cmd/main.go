package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/framekit/framekit/internal/cmd"
	"github.com/framekit/framekit/internal/cmn/config"
)

var rootCmd = &cobra.Command{
	Use:   config.AppSlug,
	Short: "Framekit plays frame-driven animation timelines",
	Long: `Framekit plays frame-driven animation timelines.

A timeline file declares a tree of elements, property animations on
them, endless carousels and timed controls that pause, resume or cancel
running animations. Framekit schedules everything on a single frame
loop and prints the final state of every element.
`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(cmd.Play())
	rootCmd.AddCommand(cmd.Validate())
	rootCmd.AddCommand(cmd.Version())

	config.Version = version
}

var version = "0.0.0"
