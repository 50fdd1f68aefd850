package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/framekit/framekit/internal/cmn/logger"
	"github.com/framekit/framekit/internal/cmn/logger/tag"
	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesToWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.NewLogger(logger.WithQuiet(), logger.WithWriter(&buf), logger.WithFormat("text"))
	l.Info("frame processed", tag.TaskID("a"))

	assert.Contains(t, buf.String(), "frame processed")
	assert.Contains(t, buf.String(), "task-id=a")
}

func TestLoggerDebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.NewLogger(logger.WithQuiet(), logger.WithWriter(&buf))
	l.Debug("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	l = logger.NewLogger(logger.WithQuiet(), logger.WithWriter(&buf), logger.WithDebug())
	l.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.NewLogger(logger.WithQuiet(), logger.WithWriter(&buf), logger.WithFormat("json"))
	l.With("k", "v").Warnf("value %d", 3)

	assert.Contains(t, buf.String(), `"msg":"value 3"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logger.WithLogger(context.Background(),
		logger.NewLogger(logger.WithQuiet(), logger.WithWriter(&buf)))
	ctx = logger.WithValues(ctx, "component", "test", "dangling")

	logger.Error(ctx, "boom")

	assert.Contains(t, buf.String(), "component=test")
	assert.Contains(t, buf.String(), "dangling=MISSING_VALUE")
}

func TestFromContextDefault(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, logger.FromContext(context.Background()))
}
