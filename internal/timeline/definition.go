package timeline

import "time"

// definition is the raw timeline file after YAML decoding. It is converted
// to a Timeline by build.
type definition struct {
	// Name is informational.
	Name string
	// Defaults apply to every animation that leaves a field unset.
	Defaults defaultsDef
	// Elements is the render surface tree.
	Elements []elementDef
	// Animations are property tweens started at time zero.
	Animations []animationDef
	// Carousels are started at time zero and run until stopped.
	Carousels []carouselDef
	// Controls act on animations or carousels at a point in time.
	Controls []controlDef
}

type defaultsDef struct {
	Duration time.Duration
	Delay    time.Duration
	Easing   string
	Priority int
	Format   string
}

type elementDef struct {
	Name     string
	ID       string
	Classes  []string
	Width    float64
	Children []elementDef
}

// Pointer fields are nil when the file leaves them out, so an explicit
// zero is kept instead of being replaced by a default.
type animationDef struct {
	ID                  string
	Group               string
	Duration            *time.Duration
	Delay               *time.Duration
	Priority            *int
	Easing              string
	CompleteAfterFrames int
	Properties          []propertyDef
}

type propertyDef struct {
	Selector string
	Rules    []ruleDef
}

type ruleDef struct {
	Name string
	From float64
	To   float64
	// Format is a fmt verb string applied to the interpolated value, such
	// as "%.2f" or "translateX(%.1fpx)".
	Format string
	Easing string
}

type carouselDef struct {
	ID       string
	Selector string
	Duration *time.Duration
	Interval time.Duration
	Easing   string
	Priority *int
}

type controlDef struct {
	At     time.Duration
	Action string
	Target string
}
