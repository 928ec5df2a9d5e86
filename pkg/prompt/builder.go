// Package prompt builds parameter submissions interactively by walking an
// app spec in declaration order. The output is a plain submission set; it
// still goes through params.Validate like any other caller input.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olsonanl/p3-assembly/pkg/appspec"
	"github.com/olsonanl/p3-assembly/pkg/params"
)

// Builder drives an interactive session over a Driver.
type Builder struct {
	driver Driver
}

// New constructs a Builder over the supplied driver.
func New(driver Driver) *Builder {
	return &Builder{driver: driver}
}

// NewInteractive constructs a Builder backed by the terminal.
func NewInteractive() *Builder {
	return New(NewSurveyDriver())
}

// Build prompts for every implemented parameter and returns the collected
// submission. Optional parameters answered with an empty value are omitted so
// validation fills their declared defaults. Planned and deprecated
// parameters are never prompted for.
func (b *Builder) Build(ctx context.Context, spec appspec.AppSpec) (params.Set, error) {
	if b.driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	return b.buildLevel(ctx, spec.Parameters)
}

func (b *Builder) buildLevel(ctx context.Context, specs []appspec.ParameterSpec) (params.Set, error) {
	out := make(params.Set, len(specs))
	for _, spec := range specs {
		if !spec.Implemented() {
			continue
		}
		value, present, err := b.buildParameter(ctx, spec)
		if err != nil {
			return nil, err
		}
		if present {
			out[spec.ID] = value
		}
	}
	return out, nil
}

func (b *Builder) buildParameter(ctx context.Context, spec appspec.ParameterSpec) (any, bool, error) {
	if !spec.AllowMultiple {
		return b.buildSingle(ctx, spec)
	}

	var values []any
	for {
		message := fmt.Sprintf("Add %s?", label(spec))
		if len(values) > 0 {
			message = fmt.Sprintf("Add another %s?", label(spec))
		}
		more, err := b.driver.Confirm(ctx, ConfirmConfig{Message: message, Help: spec.Desc})
		if err != nil {
			return nil, false, err
		}
		if !more {
			break
		}
		value, present, err := b.buildSingle(ctx, spec)
		if err != nil {
			return nil, false, err
		}
		if present {
			values = append(values, value)
		}
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	return values, true, nil
}

func (b *Builder) buildSingle(ctx context.Context, spec appspec.ParameterSpec) (any, bool, error) {
	switch spec.Type {
	case appspec.TypeGroup:
		value, err := b.buildLevel(ctx, spec.Group)
		if err != nil {
			return nil, false, err
		}
		return value, true, nil

	case appspec.TypeEnum:
		defaultIndex := 0
		if member, ok := spec.Default.(string); ok {
			for i, option := range spec.Enum {
				if option == member {
					defaultIndex = i
					break
				}
			}
		}
		idx, err := b.driver.Select(ctx, SelectConfig{
			Message:      label(spec),
			Options:      spec.Enum,
			DefaultIndex: defaultIndex,
			Help:         spec.Desc,
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(spec.Enum) {
			return nil, false, fmt.Errorf("prompt: selection out of range for %s", spec.ID)
		}
		return spec.Enum[idx], true, nil

	case appspec.TypeBool:
		def, _ := spec.Default.(bool)
		value, err := b.driver.Confirm(ctx, ConfirmConfig{Message: label(spec), Default: def, Help: spec.Desc})
		if err != nil {
			return nil, false, err
		}
		return value, true, nil

	case appspec.TypeInt:
		return b.inputScalar(ctx, spec, func(raw string) (any, error) {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", raw)
			}
			return n, nil
		})

	case appspec.TypeFloat:
		return b.inputScalar(ctx, spec, func(raw string) (any, error) {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", raw)
			}
			return f, nil
		})

	default:
		// string, wstype, folder, wsid.
		return b.inputScalar(ctx, spec, func(raw string) (any, error) {
			return raw, nil
		})
	}
}

// inputScalar prompts for a free-form value. Empty answers mean "use the
// default" for optional parameters and are rejected for required ones.
func (b *Builder) inputScalar(ctx context.Context, spec appspec.ParameterSpec, parse func(string) (any, error)) (any, bool, error) {
	cfg := InputConfig{
		Message: label(spec),
		Help:    spec.Desc,
		Default: defaultString(spec.Default),
		Validator: func(raw string) error {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				if spec.Required {
					return errors.New("a value is required")
				}
				return nil
			}
			_, err := parse(raw)
			return err
		},
	}

	raw, err := b.driver.Input(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, nil
	}
	value, err := parse(raw)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func label(spec appspec.ParameterSpec) string {
	if spec.Label != "" {
		return spec.Label
	}
	return spec.ID
}

func defaultString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
