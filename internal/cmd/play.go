package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/framekit/framekit/internal/cmn/logger"
	"github.com/framekit/framekit/internal/cmn/logger/tag"
	"github.com/framekit/framekit/internal/player"
)

var playFlags = []commandLineFlag{fpsFlag, simulateFlag, maxDurationFlag}

// Play returns the cobra command that plays a timeline.
func Play() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "play [flags] [timeline.yaml]",
			Short: "Play a timeline and print the final surface",
			Long: `Play every animation, carousel and control of a timeline file.

Playback runs in real time at the configured frame rate, or on a
deterministic clock with --simulate. It ends when nothing is left to
animate or when --max-duration of frame time has passed. The final
state of every element is printed as a table.

Example:
  framekit play --simulate --fps 30 intro.yaml
`,
			Args: cobra.MaximumNArgs(1),
		}, playFlags,
		runPlay,
	)
}

func runPlay(ctx *Context, args []string) error {
	tl, path, err := ctx.LoadTimeline(args)
	if err != nil {
		return err
	}

	sigCtx, stop := ctx.WithSignals()
	defer stop()

	logger.Info(ctx, "Playing timeline", tag.File(path))
	res, err := player.New(ctx, tl, player.Options{
		FPS:         ctx.Config.Frame.FPS,
		Simulate:    ctx.Config.Frame.Simulate,
		MaxDuration: ctx.Config.Frame.MaxDuration,
	}).Play(sigCtx)
	if err != nil {
		return fmt.Errorf("playback of %s interrupted: %w", path, err)
	}

	out := ctx.Command.OutOrStdout()
	if err := tl.Surface.Render(out); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, renderSummary(res))
	return err
}

var summaryHeader = table.Row{
	"Frames",
	"Elapsed",
	"Ticks",
	"Actions",
	"Finished",
	"Controls",
	"Cycles",
	"Timed Out",
}

func renderSummary(res player.Result) string {
	cycles := ""
	for _, id := range slices.Sorted(maps.Keys(res.Cycles)) {
		if cycles != "" {
			cycles += ", "
		}
		cycles += fmt.Sprintf("%s=%d", id, res.Cycles[id])
	}

	t := table.NewWriter()
	t.AppendHeader(summaryHeader)
	t.AppendRow(table.Row{
		res.Frames,
		res.Elapsed,
		res.Stats.Ticks,
		res.Stats.Actions,
		res.Stats.Finished,
		res.Controls,
		cycles,
		res.TimedOut,
	})
	return t.Render()
}
