package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framekit/framekit/internal/timeline"
)

// Validate returns the cobra command that checks a timeline file.
func Validate() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "validate [flags] [timeline.yaml]",
			Short: "Check a timeline file without playing it",
			Long: `Load a timeline file and report every problem found: unknown keys,
easings, selectors that match no element, invalid formats and controls
targeting unknown ids.`,
			Args: cobra.MaximumNArgs(1),
		}, nil,
		runValidate,
	)
}

func runValidate(ctx *Context, args []string) error {
	tl, path, err := ctx.LoadTimeline(args)
	out := ctx.Command.OutOrStdout()
	if err != nil {
		var list timeline.ErrorList
		if errors.As(err, &list) {
			for _, e := range list {
				_, _ = fmt.Fprintf(out, "  - %v\n", e)
			}
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err = fmt.Fprintf(out, "%s: %d animations, %d carousels, %d controls\n",
		path, len(tl.Animations), len(tl.Carousels), len(tl.Controls))
	return err
}
