// Package export converts parsed app specs into OpenAPI 3 documents so
// schema-driven UI and client generators can consume the parameter schema
// without understanding the service's native format.
package export

import (
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/olsonanl/p3-assembly/pkg/appspec"
)

const (
	// wstypeExtensionKey carries the workspace object type for wstype
	// parameters; OpenAPI has no native notion of it.
	wstypeExtensionKey = "x-p3-wstype"

	// statusExtensionKey carries the implementation status annotation.
	statusExtensionKey = "x-p3-status"
)

// OpenAPIDocument renders the spec as an OpenAPI 3 document with a single
// POST operation whose JSON request body is the parameter set.
func OpenAPIDocument(spec appspec.AppSpec) (*openapi3.T, error) {
	if spec.ID == "" {
		return nil, errors.New("export: app spec id is required")
	}

	root, err := groupSchema(spec.Parameters, "")
	if err != nil {
		return nil, err
	}
	root.Title = spec.Label

	operation := &openapi3.Operation{
		OperationID: spec.ID,
		Summary:     spec.Label,
		Description: spec.Description,
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithJSONSchema(root).WithRequired(true),
		},
		Responses: openapi3.NewResponses(),
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       spec.Label,
			Description: spec.Description,
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(),
	}
	doc.Paths.Set("/"+spec.ID, &openapi3.PathItem{Post: operation})
	return doc, nil
}

// ParameterSchema renders the parameter collection alone, for callers that
// embed it in an existing document.
func ParameterSchema(spec appspec.AppSpec) (*openapi3.Schema, error) {
	return groupSchema(spec.Parameters, "")
}

func groupSchema(specs []appspec.ParameterSpec, path string) (*openapi3.Schema, error) {
	out := &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: make(openapi3.Schemas, len(specs)),
	}
	for _, spec := range specs {
		property, err := parameterSchema(spec, joinPath(path, spec.ID))
		if err != nil {
			return nil, err
		}
		out.Properties[spec.ID] = openapi3.NewSchemaRef("", property)
		if spec.Required {
			out.Required = append(out.Required, spec.ID)
		}
	}
	return out, nil
}

func parameterSchema(spec appspec.ParameterSpec, path string) (*openapi3.Schema, error) {
	single, err := singleSchema(spec, path)
	if err != nil {
		return nil, err
	}

	if !spec.AllowMultiple {
		return single, nil
	}
	return &openapi3.Schema{
		Type:        &openapi3.Types{openapi3.TypeArray},
		Title:       single.Title,
		Description: single.Description,
		Items:       openapi3.NewSchemaRef("", single),
	}, nil
}

func singleSchema(spec appspec.ParameterSpec, path string) (*openapi3.Schema, error) {
	var out *openapi3.Schema

	switch spec.Type {
	case appspec.TypeGroup:
		nested, err := groupSchema(spec.Group, path)
		if err != nil {
			return nil, err
		}
		out = nested

	case appspec.TypeInt:
		out = &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeInteger}}

	case appspec.TypeFloat:
		out = &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}}

	case appspec.TypeBool:
		out = &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeBoolean}}

	case appspec.TypeEnum:
		values := make([]any, 0, len(spec.Enum))
		for _, member := range spec.Enum {
			values = append(values, member)
		}
		out = &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Enum: values}

	case appspec.TypeString, appspec.TypeWSType, appspec.TypeFolder, appspec.TypeWSID:
		out = &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}}

	default:
		return nil, fmt.Errorf("export: unsupported parameter type %q at %s", spec.Type, path)
	}

	out.Title = spec.Label
	out.Description = spec.Desc
	if spec.Default != nil {
		out.Default = spec.Default
	}
	if !spec.Required && spec.Type.Scalar() {
		out.Nullable = true
	}

	if spec.WSType != "" {
		setExtension(out, wstypeExtensionKey, spec.WSType)
	}
	if spec.Status != "" && spec.Status != appspec.StatusImplemented {
		setExtension(out, statusExtensionKey, string(spec.Status))
	}
	return out, nil
}

func setExtension(target *openapi3.Schema, key string, value any) {
	if target.Extensions == nil {
		target.Extensions = make(map[string]any, 1)
	}
	target.Extensions[key] = value
}

func joinPath(path, id string) string {
	if path == "" {
		return id
	}
	return path + "." + id
}
