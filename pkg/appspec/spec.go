package appspec

// ParamType enumerates the value kinds a parameter spec may declare.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeInt    ParamType = "int"
	TypeFloat  ParamType = "float"
	TypeBool   ParamType = "bool"
	TypeEnum   ParamType = "enum"
	TypeWSType ParamType = "wstype"
	TypeGroup  ParamType = "group"
	TypeFolder ParamType = "folder"
	TypeWSID   ParamType = "wsid"
)

// Valid reports whether the type belongs to the recognized set.
func (t ParamType) Valid() bool {
	switch t {
	case TypeString, TypeInt, TypeFloat, TypeBool, TypeEnum, TypeWSType, TypeGroup, TypeFolder, TypeWSID:
		return true
	default:
		return false
	}
}

// Scalar reports whether values of this type are leaf values rather than
// nested parameter sets.
func (t ParamType) Scalar() bool {
	return t != TypeGroup
}

// Status records the implementation state declared for a parameter. Earlier
// revisions of the schema documents carried this information as free-text
// comments ("not supported", "now supported"); modeling it explicitly lets
// validators and UI generators act on it.
type Status string

const (
	StatusImplemented Status = "implemented"
	StatusPlanned     Status = "planned"
	StatusDeprecated  Status = "deprecated"
)

// ParameterSpec describes one field of an application parameter schema.
type ParameterSpec struct {
	ID            string
	Label         string
	Desc          string
	Type          ParamType
	Required      bool
	Default       any
	AllowMultiple bool

	// Enum lists the allowed values, present only for enum-typed specs.
	Enum []string

	// WSType names the workspace object type for wstype-typed specs.
	WSType string

	// Status defaults to implemented when the document omits it.
	Status Status

	// Group holds the nested specs for group-typed specs, in declaration
	// order. Nested ids are unique within the group but may repeat across
	// different groups.
	Group []ParameterSpec
}

// Child returns the nested spec with the given id.
func (p ParameterSpec) Child(id string) (ParameterSpec, bool) {
	for _, child := range p.Group {
		if child.ID == id {
			return child, true
		}
	}
	return ParameterSpec{}, false
}

// EnumContains reports whether value is a member of the spec's enum set.
func (p ParameterSpec) EnumContains(value string) bool {
	for _, member := range p.Enum {
		if member == value {
			return true
		}
	}
	return false
}

// Implemented reports whether the parameter is backed by the service. The
// zero Status counts as implemented so documents without status annotations
// keep their old meaning.
func (p ParameterSpec) Implemented() bool {
	return p.Status == "" || p.Status == StatusImplemented
}

// AppSpec is the parsed parameter schema for one service application. The
// collection is loaded once at process start and treated as immutable; the
// parameter order matches the document's declaration order.
type AppSpec struct {
	ID          string
	Script      string
	Label       string
	Description string
	Parameters  []ParameterSpec
}

// Parameter returns the top-level spec with the given id.
func (s AppSpec) Parameter(id string) (ParameterSpec, bool) {
	for _, param := range s.Parameters {
		if param.ID == id {
			return param, true
		}
	}
	return ParameterSpec{}, false
}

// ParameterIDs returns the top-level ids in declaration order.
func (s AppSpec) ParameterIDs() []string {
	if len(s.Parameters) == 0 {
		return nil
	}
	ids := make([]string, 0, len(s.Parameters))
	for _, param := range s.Parameters {
		ids = append(ids, param.ID)
	}
	return ids
}
