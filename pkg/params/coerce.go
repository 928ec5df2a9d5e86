package params

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// asSequence recognizes submitted multi-value payloads. JSON and YAML
// decoders both produce []any for sequences.
func asSequence(raw any) ([]any, bool) {
	list, ok := raw.([]any)
	return list, ok
}

// asMapping recognizes submitted group payloads, including nested Set values
// produced by a previous normalization pass.
func asMapping(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case Set:
		return m, true
	default:
		return nil, false
	}
}

// coerceInt accepts native integers, integral floats (the shape
// encoding/json produces), json.Number, and numeric strings. "two" fails;
// "2" passes.
func coerceInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		if v <= math.MaxInt64 {
			return int(v), true
		}
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return int(n), true
		}
	}
	return 0, false
}

func coerceFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, true
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// coerceBool accepts booleans and the true/false/1/0 strings found in form
// submissions.
func coerceBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case int:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

// cloneValue deep-copies default values and passthrough structures so a
// normalized set never aliases the schema or the submission.
func cloneValue(raw any) any {
	switch v := raw.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = cloneValue(value)
		}
		return out
	case Set:
		out := make(Set, len(v))
		for key, value := range v {
			out[key] = cloneValue(value)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, value := range v {
			out = append(out, cloneValue(value))
		}
		return out
	default:
		return v
	}
}
