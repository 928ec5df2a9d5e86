// Package p3assembly wires the schema loading, parsing, and submission
// validation pieces together behind a small surface. Most callers only need
// GenomeAssemblySpec plus ValidateSubmission.
package p3assembly

import (
	"context"
	"fmt"
	"regexp"

	internalLoader "github.com/olsonanl/p3-assembly/internal/appspec/loader"
	internalParser "github.com/olsonanl/p3-assembly/internal/appspec/parser"
	"github.com/olsonanl/p3-assembly/pkg/appspec"
	"github.com/olsonanl/p3-assembly/pkg/params"
)

// NewLoader constructs a schema loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...appspec.LoaderOption) appspec.Loader {
	cfg := appspec.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a schema parser backed by the internal implementation.
func NewParser(options ...appspec.ParserOption) appspec.Parser {
	cfg := appspec.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// LoadSpec loads and parses a schema document in one call.
func LoadSpec(ctx context.Context, src appspec.Source, options ...appspec.LoaderOption) (appspec.AppSpec, error) {
	doc, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return appspec.AppSpec{}, err
	}
	return NewParser().Parse(ctx, doc)
}

// GenomeAssemblySpec parses the embedded assembly schema. The document is
// compiled into the binary, so this does not touch the filesystem.
func GenomeAssemblySpec(ctx context.Context) (appspec.AppSpec, error) {
	src := appspec.SourceFromFS(appspec.GenomeAssemblySpecName)
	return LoadSpec(ctx, src, appspec.WithFileSystem(appspec.EmbeddedFS()))
}

// genomeSizePattern matches the size shorthand the canu recipe accepts,
// e.g. "300k", "5m", "1.1g", or a plain base count.
var genomeSizePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?[kKmMgG]?$`)

// ValidGenomeSize reports whether raw is an acceptable genome size estimate.
func ValidGenomeSize(raw string) bool {
	return genomeSizePattern.MatchString(raw)
}

// ValidateSubmission runs the generic validator and layers the assembly
// specific genome_size format rule on top. The extra check reports as a type
// mismatch on genome_size rather than introducing a new error kind.
func ValidateSubmission(spec appspec.AppSpec, submission params.Set, opts params.Options) params.Result {
	result := params.Validate(spec, submission, opts)

	raw, ok := result.Normalized["genome_size"].(string)
	if !ok || raw == "" || ValidGenomeSize(raw) {
		return result
	}
	result.Errors = append(result.Errors, params.ValidationError{
		Kind:     params.KindTypeMismatch,
		ID:       "genome_size",
		Path:     "genome_size",
		Expected: appspec.TypeString,
		Detail:   fmt.Sprintf("%q is not a genome size (digits with an optional k/m/g suffix)", raw),
	})
	return result
}
