// Package tag provides standardized attributes for structured logging.
//
// All keys use kebab-case. Use these helpers instead of raw strings so log
// output stays consistent across packages.
package tag

import (
	"log/slog"
	"strings"
	"time"
)

// Error creates a tag for error objects.
func Error(err any) slog.Attr {
	return slog.Any("err", err)
}

// TaskID creates a tag for scheduled task ids.
func TaskID(id string) slog.Attr {
	return slog.String("task-id", id)
}

// GroupID creates a tag for task group ids.
func GroupID(id string) slog.Attr {
	return slog.String("group-id", id)
}

// Path creates a tag for a state path.
func Path(path []string) slog.Attr {
	return slog.String("path", strings.Join(path, "."))
}

// File creates a tag for file paths.
func File(path string) slog.Attr {
	return slog.String("file", path)
}

// Selector creates a tag for render surface selectors.
func Selector(sel string) slog.Attr {
	return slog.String("selector", sel)
}

// Progress creates a tag for normalized task progress.
func Progress(p float64) slog.Attr {
	return slog.Float64("progress", p)
}

// Frame creates a tag for a frame timestamp.
func Frame(now time.Duration) slog.Attr {
	return slog.Duration("frame", now)
}

// Duration creates a tag for durations.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Interval creates a tag for periodic intervals.
func Interval(d time.Duration) slog.Attr {
	return slog.Duration("interval", d)
}

// Count creates a tag for counts.
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// FPS creates a tag for frame rates.
func FPS(n int) slog.Attr {
	return slog.Int("fps", n)
}

// Cycle creates a tag for carousel cycle numbers.
func Cycle(n int) slog.Attr {
	return slog.Int("cycle", n)
}

// Action creates a tag for control actions.
func Action(name string) slog.Attr {
	return slog.String("action", name)
}
