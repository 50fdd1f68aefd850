package timeline

import (
	"errors"
	"fmt"
	"strings"
)

// errors on loading a timeline.
var (
	ErrTimelineEmpty       = errors.New("timeline has no animations or carousels")
	ErrUnknownEasing       = errors.New("unknown easing")
	ErrUnknownSelector     = errors.New("selector matches no element")
	ErrUnknownTarget       = errors.New("control target is not an animation or carousel id")
	ErrUnknownAction       = errors.New("control action must be pause, resume, toggle or cancel")
	ErrDuplicateID         = errors.New("duplicate id")
	ErrRuleNameRequired    = errors.New("rule name is required")
	ErrSelectorRequired    = errors.New("selector is required")
	ErrNegativeTime        = errors.New("time must not be negative")
	ErrInvalidFormat       = errors.New("format must contain exactly one float verb")
	ErrPropertiesRequired  = errors.New("animation needs at least one property")
	ErrNegativeFrameOffset = errors.New("completeAfterFrames must not be negative")
)

// ErrorList collects every problem found while building a timeline.
type ErrorList []error

// Error joins the messages with a semicolon.
func (e ErrorList) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is match any error in the list.
func (e ErrorList) Unwrap() []error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidationError is an error in one field of the timeline file.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field '%s': %v (value: %+v)", e.Field, e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func wrapError(field string, value any, err error) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}
