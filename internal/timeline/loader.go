package timeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"

	"github.com/framekit/framekit/internal/cmn/logger"
	"github.com/framekit/framekit/internal/cmn/logger/tag"
)

// Load reads and builds the timeline file at path.
func Load(ctx context.Context, path string) (*Timeline, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read timeline %q: %w", path, err)
	}
	tl, err := LoadYAML(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("timeline %q: %w", path, err)
	}
	logger.Debug(ctx, "Timeline loaded",
		tag.File(path),
		tag.Count(len(tl.Animations)+len(tl.Carousels)),
	)
	return tl, nil
}

// LoadYAML builds a timeline from YAML data.
func LoadYAML(ctx context.Context, data []byte) (*Timeline, error) {
	def, err := parse(data)
	if err != nil {
		return nil, err
	}
	return build(ctx, def)
}

func parse(data []byte) (*definition, error) {
	raw, err := unmarshalData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	def, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode timeline: %w", err)
	}
	if err := applyDefaults(def); err != nil {
		return nil, err
	}
	return def, nil
}

// unmarshalData unmarshals the data into a map.
func unmarshalData(data []byte) (map[string]any, error) {
	var cm map[string]any
	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&cm)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return cm, err
}

// decode decodes the map into a definition. Unknown keys are errors.
func decode(cm map[string]any) (*definition, error) {
	def := new(definition)
	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      def,
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := md.Decode(cm); err != nil {
		return nil, err
	}
	return def, nil
}

// applyDefaults fills unset animation and carousel fields from the
// defaults section.
func applyDefaults(def *definition) error {
	d := def.Defaults
	for i := range def.Animations {
		a := &def.Animations[i]
		if err := mergo.Merge(a, animationDef{Easing: d.Easing}); err != nil {
			return fmt.Errorf("failed to merge defaults: %w", err)
		}
		fillUnset(&a.Duration, d.Duration)
		fillUnset(&a.Delay, d.Delay)
		fillUnset(&a.Priority, d.Priority)
		for j := range def.Animations[i].Properties {
			rules := def.Animations[i].Properties[j].Rules
			for k := range rules {
				if err := mergo.Merge(&rules[k], ruleDef{Format: d.Format}); err != nil {
					return fmt.Errorf("failed to merge defaults: %w", err)
				}
			}
		}
	}
	for i := range def.Carousels {
		c := &def.Carousels[i]
		if err := mergo.Merge(c, carouselDef{Easing: d.Easing}); err != nil {
			return fmt.Errorf("failed to merge defaults: %w", err)
		}
		fillUnset(&c.Duration, d.Duration)
		fillUnset(&c.Priority, d.Priority)
	}
	return nil
}

// fillUnset points field at value when the file left it out.
func fillUnset[T any](field **T, value T) {
	if *field == nil {
		*field = &value
	}
}
