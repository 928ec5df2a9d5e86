package appspec

import "fmt"

// SchemaError reports a malformed schema document. It is fatal at load time:
// a process cannot validate submissions against a schema it failed to parse.
type SchemaError struct {
	// Location identifies the document origin, when known.
	Location string

	// Path points at the offending spec, e.g. "paired_end_libs/platform".
	Path string

	// Message describes the defect.
	Message string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Location != "" && e.Path != "":
		return fmt.Sprintf("appspec: %s: %s at %s", e.Location, e.Message, e.Path)
	case e.Path != "":
		return fmt.Sprintf("appspec: %s at %s", e.Message, e.Path)
	case e.Location != "":
		return fmt.Sprintf("appspec: %s: %s", e.Location, e.Message)
	default:
		return "appspec: " + e.Message
	}
}
