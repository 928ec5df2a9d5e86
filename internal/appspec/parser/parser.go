package parser

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olsonanl/p3-assembly/pkg/appspec"
)

// Parser implements appspec.Parser for the JSON/YAML app-spec documents used
// by the assembly service. YAML is a superset of JSON, so a single decoder
// covers both encodings.
type Parser struct {
	options appspec.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ appspec.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options appspec.ParserOptions) appspec.Parser {
	return &Parser{options: options}
}

// specKeys is the documented per-parameter key set.
var specKeys = map[string]struct{}{
	"id":             {},
	"type":           {},
	"label":          {},
	"desc":           {},
	"required":       {},
	"default":        {},
	"allow_multiple": {},
	"enum":           {},
	"group":          {},
	"wstype":         {},
	"status":         {},
}

// Parse decodes a schema document into an AppSpec, preserving parameter
// declaration order. Any structural defect is reported as *appspec.SchemaError.
func (p *Parser) Parse(ctx context.Context, doc appspec.Document) (appspec.AppSpec, error) {
	if err := ctx.Err(); err != nil {
		return appspec.AppSpec{}, err
	}

	raw := doc.Raw()
	if len(raw) == 0 {
		return appspec.AppSpec{}, schemaErr(doc.Location(), "", "document payload is empty")
	}

	var payload map[string]any
	if err := yaml.Unmarshal(raw, &payload); err != nil {
		return appspec.AppSpec{}, schemaErr(doc.Location(), "", fmt.Sprintf("decode %s document: %v", doc.Format(), err))
	}

	spec := appspec.AppSpec{
		ID:          readString(payload, "id"),
		Script:      readString(payload, "script"),
		Label:       readString(payload, "label"),
		Description: readString(payload, "description"),
	}
	if spec.ID == "" {
		return appspec.AppSpec{}, schemaErr(doc.Location(), "", "schema id is required")
	}

	paramsRaw, ok := payload["parameters"]
	if !ok {
		return appspec.AppSpec{}, schemaErr(doc.Location(), "", "parameters section is required")
	}
	list, ok := paramsRaw.([]any)
	if !ok {
		return appspec.AppSpec{}, schemaErr(doc.Location(), "", "parameters must be a sequence")
	}

	params, err := p.parseSpecs(list, "", doc.Location())
	if err != nil {
		return appspec.AppSpec{}, err
	}
	spec.Parameters = params
	return spec, nil
}

// parseSpecs converts one nesting level, enforcing id uniqueness within it.
func (p *Parser) parseSpecs(list []any, path, location string) ([]appspec.ParameterSpec, error) {
	specs := make([]appspec.ParameterSpec, 0, len(list))
	seen := make(map[string]struct{}, len(list))

	for idx, entry := range list {
		payload, ok := entry.(map[string]any)
		if !ok {
			return nil, schemaErr(location, indexPath(path, idx), "parameter must be a mapping")
		}
		spec, err := p.parseSpec(payload, path, idx, location)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[spec.ID]; dup {
			return nil, schemaErr(location, joinPath(path, spec.ID), "duplicate parameter id")
		}
		seen[spec.ID] = struct{}{}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (p *Parser) parseSpec(payload map[string]any, path string, idx int, location string) (appspec.ParameterSpec, error) {
	id := readString(payload, "id")
	if id == "" {
		return appspec.ParameterSpec{}, schemaErr(location, indexPath(path, idx), "parameter id is required")
	}
	specPath := joinPath(path, id)

	if p.options.RejectUnknownKeys {
		for key := range payload {
			if _, ok := specKeys[key]; !ok {
				return appspec.ParameterSpec{}, schemaErr(location, specPath, fmt.Sprintf("unknown key %q", key))
			}
		}
	}

	typeName := readString(payload, "type")
	if typeName == "" {
		return appspec.ParameterSpec{}, schemaErr(location, specPath, "parameter type is required")
	}
	paramType := appspec.ParamType(typeName)
	if !paramType.Valid() {
		return appspec.ParameterSpec{}, schemaErr(location, specPath, fmt.Sprintf("unrecognized type %q", typeName))
	}

	spec := appspec.ParameterSpec{
		ID:      id,
		Label:   readString(payload, "label"),
		Desc:    readString(payload, "desc"),
		Type:    paramType,
		Default: payload["default"],
		WSType:  readString(payload, "wstype"),
	}

	if raw, ok := payload["required"]; ok {
		required, ok := toBool(raw)
		if !ok {
			return appspec.ParameterSpec{}, schemaErr(location, specPath, "required must be a boolean")
		}
		spec.Required = required
	}
	if raw, ok := payload["allow_multiple"]; ok {
		multiple, ok := toBool(raw)
		if !ok {
			return appspec.ParameterSpec{}, schemaErr(location, specPath, "allow_multiple must be a boolean")
		}
		spec.AllowMultiple = multiple
	}

	if spec.Required && spec.Default != nil {
		return appspec.ParameterSpec{}, schemaErr(location, specPath, "required parameter must not declare a default")
	}

	if raw, ok := payload["status"]; ok {
		status, ok := raw.(string)
		if !ok {
			return appspec.ParameterSpec{}, schemaErr(location, specPath, "status must be a string")
		}
		switch appspec.Status(status) {
		case appspec.StatusImplemented, appspec.StatusPlanned, appspec.StatusDeprecated:
			spec.Status = appspec.Status(status)
		default:
			return appspec.ParameterSpec{}, schemaErr(location, specPath, fmt.Sprintf("unrecognized status %q", status))
		}
	}

	if err := p.parseEnum(payload, &spec, specPath, location); err != nil {
		return appspec.ParameterSpec{}, err
	}
	if err := p.parseGroup(payload, &spec, specPath, location); err != nil {
		return appspec.ParameterSpec{}, err
	}
	if err := p.normalizeDefault(&spec, specPath, location); err != nil {
		return appspec.ParameterSpec{}, err
	}
	return spec, nil
}

// normalizeDefault checks scalar defaults against the declared type and
// rewrites them into the canonical Go shape, so default fill downstream does
// not depend on which decoder produced the document. Enum defaults are
// checked by parseEnum; group defaults are forbidden by parseGroup.
func (p *Parser) normalizeDefault(spec *appspec.ParameterSpec, specPath, location string) error {
	if spec.Default == nil || spec.Type == appspec.TypeEnum || spec.Type == appspec.TypeGroup {
		return nil
	}

	switch spec.Type {
	case appspec.TypeInt:
		switch v := spec.Default.(type) {
		case int:
		case int64:
			spec.Default = int(v)
		case float64:
			if v != math.Trunc(v) {
				return schemaErr(location, specPath, fmt.Sprintf("default %v is not an int", v))
			}
			spec.Default = int(v)
		default:
			return schemaErr(location, specPath, fmt.Sprintf("default %v is not an int", spec.Default))
		}
	case appspec.TypeFloat:
		switch v := spec.Default.(type) {
		case float64:
		case int:
			spec.Default = float64(v)
		case int64:
			spec.Default = float64(v)
		default:
			return schemaErr(location, specPath, fmt.Sprintf("default %v is not a float", spec.Default))
		}
	case appspec.TypeBool:
		if _, ok := spec.Default.(bool); !ok {
			return schemaErr(location, specPath, fmt.Sprintf("default %v is not a bool", spec.Default))
		}
	default:
		// string, wstype, folder, wsid.
		if _, ok := spec.Default.(string); !ok {
			return schemaErr(location, specPath, fmt.Sprintf("default %v is not a string", spec.Default))
		}
	}
	return nil
}

func (p *Parser) parseEnum(payload map[string]any, spec *appspec.ParameterSpec, specPath, location string) error {
	raw, present := payload["enum"]
	if spec.Type != appspec.TypeEnum {
		if present {
			return schemaErr(location, specPath, "enum values are only allowed on enum parameters")
		}
		return nil
	}
	if !present {
		return schemaErr(location, specPath, "enum parameter must list its values")
	}

	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return schemaErr(location, specPath, "enum must be a non-empty sequence")
	}
	members := make([]string, 0, len(list))
	for i, entry := range list {
		member, ok := entry.(string)
		if !ok {
			return schemaErr(location, specPath, fmt.Sprintf("enum[%d] must be a string", i))
		}
		members = append(members, member)
	}
	spec.Enum = members

	if spec.Default != nil {
		member, ok := spec.Default.(string)
		if !ok || !spec.EnumContains(member) {
			return schemaErr(location, specPath, fmt.Sprintf("default %v is not an enum member", spec.Default))
		}
	}
	return nil
}

func (p *Parser) parseGroup(payload map[string]any, spec *appspec.ParameterSpec, specPath, location string) error {
	raw, present := payload["group"]
	if spec.Type != appspec.TypeGroup {
		if present {
			return schemaErr(location, specPath, "nested group is only allowed on group parameters")
		}
		return nil
	}
	if !present {
		return schemaErr(location, specPath, "group parameter must define its members")
	}
	if spec.Default != nil {
		return schemaErr(location, specPath, "group parameter must not declare a default")
	}

	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		return schemaErr(location, specPath, "group must be a non-empty sequence")
	}
	nested, err := p.parseSpecs(list, specPath, location)
	if err != nil {
		return err
	}
	spec.Group = nested
	return nil
}

func schemaErr(location, path, message string) error {
	return &appspec.SchemaError{Location: location, Path: path, Message: message}
}

func readString(payload map[string]any, key string) string {
	value, ok := payload[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

// toBool accepts the encodings found in deployed documents: booleans and the
// legacy 0/1 integers.
func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	case float64:
		if v == 0 || v == 1 {
			return v == 1, true
		}
	}
	return false, false
}

func joinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "/" + segment
}

func indexPath(path string, idx int) string {
	return joinPath(path, fmt.Sprintf("[%d]", idx))
}
