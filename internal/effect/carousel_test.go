package effect_test

import (
	"context"
	"testing"
	"time"

	"github.com/framekit/framekit/internal/effect"
	"github.com/framekit/framekit/internal/easing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarousel(h *harness, interval time.Duration) *effect.Carousel {
	return effect.NewCarousel(context.Background(), h.env, h.surf, effect.CarouselOptions{
		ID:       "slides",
		Selector: ".track",
		Duration: 100 * ms,
		Interval: interval,
		Easing:   easing.Linear,
	})
}

func TestCarouselChainsCycles(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "a", "b", "c")
	track := h.target(".track")
	c := newCarousel(h, 0)

	h.run(c.Start())
	require.True(t, c.Running())
	assert.Equal(t, []string{"transform"}, track.hints())

	h.frame(0)
	assert.Equal(t, "translateX(0.00px)", track.style("transform"))
	h.frame(50 * ms)
	assert.Equal(t, "translateX(-50.00px)", track.style("transform"))
	h.frame(100 * ms)
	assert.Equal(t, "translateX(-100.00px)", track.style("transform"))

	h.frame(116 * ms)
	assert.Equal(t, 1, c.Cycles())
	assert.Equal(t, []string{"b", "c", "a"}, h.surf.order())
	assert.Equal(t, "translateX(0.00px)", track.style("transform"))

	tk, ok := h.find("slides")
	require.True(t, ok, "next cycle is a new task")
	assert.Zero(t, tk.Progress())

	h.frame(200 * ms)
	h.frame(300 * ms)
	h.frame(316 * ms)
	assert.Equal(t, 2, c.Cycles())
	assert.Equal(t, []string{"c", "a", "b"}, h.surf.order())
}

func TestCarouselStop(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "a", "b", "c")
	track := h.target(".track")
	c := newCarousel(h, 0)

	h.run(c.Start())
	h.frame(0)
	h.frame(40 * ms)

	h.run(c.Stop())
	assert.False(t, c.Running())
	assert.Equal(t, "translateX(0.00px)", track.style("transform"))
	assert.Empty(t, track.hints())

	_, ok := h.find("slides")
	assert.False(t, ok)

	h.frame(56 * ms)
	h.frame(72 * ms)
	assert.Zero(t, c.Cycles())
	assert.Equal(t, []string{"a", "b", "c"}, h.surf.order())

	h.run(c.Stop())
}

func TestCarouselRestartIgnoresCancelledCycle(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "a", "b", "c")
	track := h.target(".track")
	c := newCarousel(h, 0)

	h.run(c.Start())
	h.frame(0)
	h.frame(40 * ms)

	h.run(c.Stop())
	h.run(c.Start())
	require.True(t, c.Running())

	h.frame(56 * ms)
	assert.Zero(t, c.Cycles())
	assert.Equal(t, []string{"a", "b", "c"}, h.surf.order())
	assert.Equal(t, "translateX(0.00px)", track.style("transform"))

	tk, ok := h.find("slides")
	require.True(t, ok, "restarted cycle keeps running")
	assert.Zero(t, tk.Progress())

	h.frame(106 * ms)
	assert.Equal(t, "translateX(-50.00px)", track.style("transform"))
	h.frame(156 * ms)
	h.frame(172 * ms)
	assert.Equal(t, 1, c.Cycles())
	assert.Equal(t, []string{"b", "c", "a"}, h.surf.order())
}

func TestCarouselNeedsTwoChildren(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "only")
	c := newCarousel(h, 0)

	h.run(c.Start())
	assert.False(t, c.Running())
	_, ok := h.find("slides")
	assert.False(t, ok)
}

func TestCarouselWaitsInterval(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "a", "b")
	c := newCarousel(h, 20*ms)

	h.run(c.Start())
	h.frame(0)
	h.frame(100 * ms)
	h.frame(116 * ms)
	require.Equal(t, 1, c.Cycles())

	_, ok := h.find("slides")
	assert.False(t, ok, "next cycle waits for the interval")

	h.frame(132 * ms)
	_, ok = h.find("slides")
	assert.False(t, ok)

	h.frame(152 * ms)
	_, ok = h.find("slides")
	assert.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, h.surf.order())
}

func TestCarouselStopDuringInterval(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "a", "b")
	c := newCarousel(h, 50*ms)

	h.run(c.Start())
	h.frame(0)
	h.frame(100 * ms)
	h.frame(116 * ms)
	require.Equal(t, 1, h.src.Pending())

	h.run(c.Stop())
	assert.Zero(t, h.src.Pending())

	h.frame(200 * ms)
	_, ok := h.find("slides")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Cycles())
}
