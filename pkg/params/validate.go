package params

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/olsonanl/p3-assembly/pkg/appspec"
)

// Set is a submitted or normalized parameter set, keyed by parameter id.
// Values for allow_multiple parameters are []any sequences; group values are
// nested maps.
type Set map[string]any

// UnsupportedPolicy controls how values for planned or deprecated parameters
// are handled.
type UnsupportedPolicy int

const (
	// UnsupportedWarn accepts the value and reports a warning. This is the
	// default: callers that predate status annotations keep working.
	UnsupportedWarn UnsupportedPolicy = iota

	// UnsupportedReject fails validation for the offending parameter.
	UnsupportedReject

	// UnsupportedIgnore drops the value and normalizes to the default.
	UnsupportedIgnore
)

// Options configures a validation pass.
type Options struct {
	// Strict rejects submitted ids that the schema does not declare.
	// Non-strict validation drops them silently.
	Strict bool

	// Unsupported selects the policy for planned/deprecated parameters.
	Unsupported UnsupportedPolicy
}

// Result carries the outcome of one validation pass. Normalized is only
// meaningful when Errors is empty.
type Result struct {
	Normalized Set
	Errors     []ValidationError
	Warnings   []ValidationError
}

// Valid reports whether the submission passed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks a submission against the schema and produces a fresh,
// fully-defaulted parameter set. It never mutates the submission; it is pure
// over its inputs and safe to call concurrently against a shared AppSpec.
//
// An explicit null value is treated the same as an absent key, which keeps
// normalization idempotent: re-validating a normalized set yields the same
// set with zero errors.
func Validate(spec appspec.AppSpec, submission Set, opts Options) Result {
	v := &validator{opts: opts}
	normalized := v.walkLevel(spec.Parameters, submission, "")
	return Result{Normalized: normalized, Errors: v.errors, Warnings: v.warnings}
}

type validator struct {
	opts     Options
	errors   []ValidationError
	warnings []ValidationError
}

func (v *validator) fail(err ValidationError) {
	v.errors = append(v.errors, err)
}

func (v *validator) warn(err ValidationError) {
	v.warnings = append(v.warnings, err)
}

// walkLevel applies every spec of one nesting level in declaration order and
// then sweeps the submission for unknown ids.
func (v *validator) walkLevel(specs []appspec.ParameterSpec, submitted map[string]any, path string) Set {
	out := make(Set, len(specs))
	for _, spec := range specs {
		specPath := joinPath(path, spec.ID)
		raw, present := submitted[spec.ID]
		if !present || raw == nil {
			if spec.Required {
				v.fail(ValidationError{Kind: KindMissingRequired, ID: spec.ID, Path: specPath})
				continue
			}
			out[spec.ID] = defaultValue(spec)
			continue
		}

		if !spec.Implemented() {
			err := ValidationError{
				Kind:   KindUnsupportedParameter,
				ID:     spec.ID,
				Path:   specPath,
				Detail: fmt.Sprintf("declared %s", spec.Status),
			}
			switch v.opts.Unsupported {
			case UnsupportedReject:
				v.fail(err)
				continue
			case UnsupportedIgnore:
				out[spec.ID] = defaultValue(spec)
				continue
			default:
				// A value that merely echoes the declared default is what a
				// prior normalization pass produces; only genuine caller
				// input warrants a warning.
				if !isDefaultEcho(spec, raw) {
					v.warn(err)
				}
			}
		}

		out[spec.ID] = v.walkValue(spec, raw, specPath)
	}

	v.sweepUnknown(specs, submitted, path)
	return out
}

// walkValue resolves multiplicity before dispatching to the scalar/group
// checks. A bare instance submitted for an allow_multiple spec normalizes to
// a one-element sequence.
func (v *validator) walkValue(spec appspec.ParameterSpec, raw any, path string) any {
	if list, ok := asSequence(raw); ok {
		if !spec.AllowMultiple {
			v.fail(ValidationError{Kind: KindMultiplicityViolation, ID: spec.ID, Path: path})
			return nil
		}
		out := make([]any, 0, len(list))
		for idx, item := range list {
			out = append(out, v.walkSingle(spec, item, fmt.Sprintf("%s[%d]", path, idx)))
		}
		return out
	}
	if spec.AllowMultiple {
		return []any{v.walkSingle(spec, raw, path+"[0]")}
	}
	return v.walkSingle(spec, raw, path)
}

func (v *validator) walkSingle(spec appspec.ParameterSpec, raw any, path string) any {
	if raw == nil {
		if spec.Required {
			v.fail(ValidationError{Kind: KindMissingRequired, ID: spec.ID, Path: path})
			return nil
		}
		return cloneValue(spec.Default)
	}

	switch spec.Type {
	case appspec.TypeGroup:
		sub, ok := asMapping(raw)
		if !ok {
			v.fail(ValidationError{Kind: KindTypeMismatch, ID: spec.ID, Path: path, Expected: spec.Type})
			return nil
		}
		return v.walkLevel(spec.Group, sub, path)

	case appspec.TypeInt:
		n, ok := coerceInt(raw)
		if !ok {
			v.fail(v.mismatch(spec, raw, path))
			return nil
		}
		return n

	case appspec.TypeFloat:
		f, ok := coerceFloat(raw)
		if !ok {
			v.fail(v.mismatch(spec, raw, path))
			return nil
		}
		return f

	case appspec.TypeBool:
		b, ok := coerceBool(raw)
		if !ok {
			v.fail(v.mismatch(spec, raw, path))
			return nil
		}
		return b

	case appspec.TypeEnum:
		member, ok := raw.(string)
		if !ok {
			v.fail(v.mismatch(spec, raw, path))
			return nil
		}
		if !spec.EnumContains(member) {
			v.fail(ValidationError{
				Kind:    KindInvalidEnum,
				ID:      spec.ID,
				Path:    path,
				Detail:  fmt.Sprintf("got %q", member),
				Allowed: append([]string(nil), spec.Enum...),
			})
			return nil
		}
		return member

	default:
		// string, wstype, folder, wsid: all carry string values.
		value, ok := raw.(string)
		if !ok {
			v.fail(v.mismatch(spec, raw, path))
			return nil
		}
		if spec.Required && value == "" {
			v.fail(ValidationError{
				Kind:     KindTypeMismatch,
				ID:       spec.ID,
				Path:     path,
				Detail:   "required value must be a non-empty string",
				Expected: spec.Type,
			})
			return nil
		}
		return value
	}
}

func (v *validator) mismatch(spec appspec.ParameterSpec, raw any, path string) ValidationError {
	return ValidationError{
		Kind:     KindTypeMismatch,
		ID:       spec.ID,
		Path:     path,
		Detail:   fmt.Sprintf("got %v (%T)", raw, raw),
		Expected: spec.Type,
	}
}

// sweepUnknown reports or drops ids the schema does not declare. Sorted so
// error order is deterministic.
func (v *validator) sweepUnknown(specs []appspec.ParameterSpec, submitted map[string]any, path string) {
	if !v.opts.Strict {
		return
	}
	known := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		known[spec.ID] = struct{}{}
	}
	var unknown []string
	for id := range submitted {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		v.fail(ValidationError{Kind: KindUnknownParameter, ID: id, Path: joinPath(path, id)})
	}
}

// defaultValue clones the declared default for the normalized set, wrapping
// it for allow_multiple specs so filled defaults take the same sequence shape
// validation gives submitted values. Without the wrap a normalized set would
// not re-validate to itself.
func defaultValue(spec appspec.ParameterSpec) any {
	if spec.Default == nil {
		return nil
	}
	if spec.AllowMultiple {
		return []any{cloneValue(spec.Default)}
	}
	return cloneValue(spec.Default)
}

// isDefaultEcho reports whether raw is just the declared default coming back,
// in either the bare or the sequence-wrapped shape.
func isDefaultEcho(spec appspec.ParameterSpec, raw any) bool {
	if spec.Default == nil {
		return false
	}
	return reflect.DeepEqual(raw, spec.Default) || reflect.DeepEqual(raw, defaultValue(spec))
}

func joinPath(path, id string) string {
	if path == "" {
		return id
	}
	return path + "." + id
}
