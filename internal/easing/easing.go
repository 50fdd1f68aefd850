// Package easing provides progress easing curves for frame-scheduled
// animations.
package easing

import (
	"math"
	"strings"
)

// Func maps linear progress in [0, 1] to eased progress.
type Func func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 { return t }

func InQuad(t float64) float64  { return t * t }
func OutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }
func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func InCubic(t float64) float64  { return t * t * t }
func OutCubic(t float64) float64 { return 1 - math.Pow(1-t, 3) }
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func InQuart(t float64) float64  { return t * t * t * t }
func OutQuart(t float64) float64 { return 1 - math.Pow(1-t, 4) }
func InOutQuart(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 4)/2
}

// OutBack overshoots slightly past 1 before settling.
func OutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// OutBounce bounces against the end value.
func OutBounce(t float64) float64 {
	const n1 = 7.5625
	const d1 = 2.75

	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// OutElastic oscillates around the end value with decaying amplitude.
func OutElastic(t float64) float64 {
	const c4 = (2 * math.Pi) / 3
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

var presets = map[string]Func{
	"linear":         Linear,
	"easeinquad":     InQuad,
	"easeoutquad":    OutQuad,
	"easeinoutquad":  InOutQuad,
	"easeincubic":    InCubic,
	"easeoutcubic":   OutCubic,
	"easeinoutcubic": InOutCubic,
	"easeinquart":    InQuart,
	"easeoutquart":   OutQuart,
	"easeinoutquart": InOutQuart,
	"easeoutback":    OutBack,
	"easeoutbounce":  OutBounce,
	"easeoutelastic": OutElastic,
}

// Lookup finds a preset by name. Names are matched case-insensitively and
// ignoring dashes and underscores, so "ease-out-cubic" and "easeOutCubic"
// are the same curve. An empty name is Linear.
func Lookup(name string) (Func, bool) {
	if name == "" {
		return Linear, true
	}
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(name))
	fn, ok := presets[key]
	return fn, ok
}

// Names returns the canonical preset keys.
func Names() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	return names
}
