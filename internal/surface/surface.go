// Package surface is an in-memory render surface: a tree of named
// elements holding inline styles and compositing hints. It stands in for a
// browser document when animations are played from the command line.
package surface

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/framekit/framekit/internal/effect"
	"github.com/jedib0t/go-pretty/v6/table"
)

// DefaultWidth is the layout width of an element that does not declare one.
const DefaultWidth = 100.0

// Spec declares one element and its children.
type Spec struct {
	// Name is the path segment of the element. It defaults to the ID, then
	// to "el<n>" where n is the element's position among its siblings.
	Name     string
	ID       string
	Classes  []string
	Width    float64
	Children []Spec
}

// Surface holds an element tree. It is safe for concurrent use.
type Surface struct {
	mu    sync.RWMutex
	roots []*Element
	byID  map[string]*Element
	order []*Element
}

// Element is one node of the surface.
type Element struct {
	surface  *Surface
	name     string
	id       string
	path     string
	classes  []string
	width    float64
	children []*Element
	styles   map[string]string
	hint     []string
}

var (
	_ effect.Target   = (*Element)(nil)
	_ effect.Resolver = (*Surface)(nil)
	_ effect.Layout   = (*Surface)(nil)
)

// New builds a surface from specs. Duplicate ids keep the first element.
func New(specs ...Spec) *Surface {
	s := &Surface{byID: make(map[string]*Element)}
	for i, spec := range specs {
		s.roots = append(s.roots, s.build(spec, "", i))
	}
	return s
}

func (s *Surface) build(spec Spec, parent string, index int) *Element {
	name := spec.Name
	if name == "" {
		name = spec.ID
	}
	if name == "" {
		name = fmt.Sprintf("el%d", index)
	}
	path := name
	if parent != "" {
		path = parent + "/" + name
	}
	width := spec.Width
	if width <= 0 {
		width = DefaultWidth
	}

	el := &Element{
		surface: s,
		name:    name,
		id:      spec.ID,
		path:    path,
		classes: slices.Clone(spec.Classes),
		width:   width,
		styles:  make(map[string]string),
	}
	s.order = append(s.order, el)
	if el.id != "" {
		if _, dup := s.byID[el.id]; !dup {
			s.byID[el.id] = el
		}
	}
	for i, child := range spec.Children {
		el.children = append(el.children, s.build(child, path, i))
	}
	return el
}

// Match returns the elements matched by selector in document order.
// "#id" matches by id, ".class" by class; anything else is a doublestar
// pattern over element paths such as "stage/**/item*".
func (s *Surface) Match(selector string) ([]*Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	selector = strings.TrimSpace(selector)
	switch {
	case selector == "":
		return nil, nil
	case strings.HasPrefix(selector, "#"):
		if el, ok := s.byID[selector[1:]]; ok {
			return []*Element{el}, nil
		}
		return nil, nil
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		var out []*Element
		for _, el := range s.order {
			if slices.Contains(el.classes, class) {
				out = append(out, el)
			}
		}
		return out, nil
	}

	if !doublestar.ValidatePattern(selector) {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, doublestar.ErrBadPattern)
	}
	var out []*Element
	for _, el := range s.order {
		if ok, _ := doublestar.Match(selector, el.path); ok {
			out = append(out, el)
		}
	}
	return out, nil
}

// Resolve implements effect.Resolver. Invalid selectors match nothing.
func (s *Surface) Resolve(selector string) []effect.Target {
	els, err := s.Match(selector)
	if err != nil {
		return nil
	}
	targets := make([]effect.Target, len(els))
	for i, el := range els {
		targets[i] = el
	}
	return targets
}

// Find returns the element at path.
func (s *Surface) Find(path string) (*Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, el := range s.order {
		if el.path == path {
			return el, true
		}
	}
	return nil, false
}

// ChildOffsets implements effect.Layout for the first element matched by
// selector. Children are laid out left to right in their current order.
func (s *Surface) ChildOffsets(selector string) []float64 {
	el := s.first(selector)
	if el == nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	offsets := make([]float64, len(el.children))
	x := 0.0
	for i, child := range el.children {
		offsets[i] = x
		x += child.width
	}
	return offsets
}

// RotateChildren implements effect.Layout.
func (s *Surface) RotateChildren(selector string) {
	el := s.first(selector)
	if el == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(el.children) > 1 {
		el.children = append(el.children[1:], el.children[0])
	}
}

func (s *Surface) first(selector string) *Element {
	els, err := s.Match(selector)
	if err != nil || len(els) == 0 {
		return nil
	}
	return els[0]
}

var renderHeader = table.Row{
	"Path",
	"ID",
	"Classes",
	"Styles",
	"Hint",
}

// Render writes a table of every element, children in their current
// order.
func (s *Surface) Render(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tw := table.NewWriter()
	tw.AppendHeader(renderHeader)

	var walk func(els []*Element)
	walk = func(els []*Element) {
		for _, el := range els {
			tw.AppendRow(table.Row{
				el.path,
				el.id,
				strings.Join(el.classes, " "),
				formatStyles(el.styles),
				strings.Join(el.hint, ", "),
			})
			walk(el.children)
		}
	}
	walk(s.roots)

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

func formatStyles(styles map[string]string) string {
	keys := slices.Sorted(maps.Keys(styles))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + styles[k]
	}
	return strings.Join(parts, "; ")
}

// Name returns the element's path segment.
func (e *Element) Name() string { return e.name }

// ID returns the element id, possibly empty.
func (e *Element) ID() string { return e.id }

// Path returns the slash-separated path from the root.
func (e *Element) Path() string { return e.path }

// SetStyle implements effect.Target.
func (e *Element) SetStyle(name, value string) {
	e.surface.mu.Lock()
	defer e.surface.mu.Unlock()
	e.styles[name] = value
}

// SetHint implements effect.Target.
func (e *Element) SetHint(names []string) {
	e.surface.mu.Lock()
	defer e.surface.mu.Unlock()
	e.hint = slices.Clone(names)
}

// Style returns the inline value of a style property.
func (e *Element) Style(name string) string {
	e.surface.mu.RLock()
	defer e.surface.mu.RUnlock()
	return e.styles[name]
}

// Styles returns a copy of all inline styles.
func (e *Element) Styles() map[string]string {
	e.surface.mu.RLock()
	defer e.surface.mu.RUnlock()
	return maps.Clone(e.styles)
}

// Hint returns the current compositing hint.
func (e *Element) Hint() []string {
	e.surface.mu.RLock()
	defer e.surface.mu.RUnlock()
	return slices.Clone(e.hint)
}

// Children returns the names of the element's children in current order.
func (e *Element) Children() []string {
	e.surface.mu.RLock()
	defer e.surface.mu.RUnlock()
	names := make([]string, len(e.children))
	for i, c := range e.children {
		names[i] = c.name
	}
	return names
}
