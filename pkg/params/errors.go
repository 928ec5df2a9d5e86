package params

import (
	"fmt"
	"strings"

	"github.com/olsonanl/p3-assembly/pkg/appspec"
)

// ErrorKind classifies a per-field validation failure.
type ErrorKind string

const (
	// KindMissingRequired marks a required parameter absent from the
	// submission.
	KindMissingRequired ErrorKind = "missing_required"

	// KindMultiplicityViolation marks a sequence submitted for a parameter
	// that does not allow multiple values.
	KindMultiplicityViolation ErrorKind = "multiplicity_violation"

	// KindTypeMismatch marks a value that cannot be interpreted as the
	// declared type.
	KindTypeMismatch ErrorKind = "type_mismatch"

	// KindInvalidEnum marks a value outside the declared enum set.
	KindInvalidEnum ErrorKind = "invalid_enum"

	// KindUnknownParameter marks a submitted id absent from the schema;
	// reported only under strict validation.
	KindUnknownParameter ErrorKind = "unknown_parameter"

	// KindUnsupportedParameter marks a value supplied for a parameter the
	// service declares planned or deprecated.
	KindUnsupportedParameter ErrorKind = "unsupported_parameter"
)

// ValidationError describes one problem found in a submission. Errors are
// collected, never short-circuited, so a caller sees every problem in one
// pass.
type ValidationError struct {
	Kind ErrorKind `json:"kind"`

	// ID is the parameter id the error applies to.
	ID string `json:"id"`

	// Path locates the value within the submission, including sequence
	// indices, e.g. "paired_end_libs[1].read1".
	Path string `json:"path"`

	Detail string `json:"detail,omitempty"`

	// Expected carries the declared type for type mismatches.
	Expected appspec.ParamType `json:"expected_type,omitempty"`

	// Allowed carries the enum member set for invalid enum values.
	Allowed []string `json:"allowed,omitempty"`
}

// Error renders a single-line description suitable for logs and CLI output.
func (e ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	b.WriteString(": ")
	switch e.Kind {
	case KindMissingRequired:
		b.WriteString("required parameter is missing")
	case KindMultiplicityViolation:
		b.WriteString("parameter does not allow multiple values")
	case KindTypeMismatch:
		fmt.Fprintf(&b, "value is not a valid %s", e.Expected)
	case KindInvalidEnum:
		fmt.Fprintf(&b, "value is not one of [%s]", strings.Join(e.Allowed, ", "))
	case KindUnknownParameter:
		b.WriteString("parameter is not declared in the schema")
	case KindUnsupportedParameter:
		b.WriteString("parameter is not supported by the service")
	default:
		b.WriteString(string(e.Kind))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}
