package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/olsonanl/p3-assembly/pkg/appspec"
)

// assemblySpec builds the subset of the GenomeAssembly schema the tests
// exercise. Kept in code so failures point at one place.
func assemblySpec() appspec.AppSpec {
	return appspec.AppSpec{
		ID: "GenomeAssembly",
		Parameters: []appspec.ParameterSpec{
			{
				ID:            "paired_end_libs",
				Type:          appspec.TypeGroup,
				AllowMultiple: true,
				Group: []appspec.ParameterSpec{
					{ID: "read1", Type: appspec.TypeWSType, WSType: "ReadFile", Required: true},
					{ID: "read2", Type: appspec.TypeWSType, WSType: "ReadFile"},
					{
						ID:      "platform",
						Type:    appspec.TypeEnum,
						Default: "infer",
						Enum:    []string{"infer", "illumina", "iontorrent", "pacbio", "nanopore"},
					},
					{ID: "interleaved", Type: appspec.TypeBool, Default: false, Status: appspec.StatusPlanned},
				},
			},
			{
				ID:   "recipe",
				Type: appspec.TypeEnum,
				Enum: []string{"auto", "unicycler", "canu", "spades", "meta-spades", "plasmid-spades", "single-cell"},

				Default: "auto",
			},
			{ID: "racon_iter", Type: appspec.TypeInt, Default: 2},
			{ID: "min_contig_cov", Type: appspec.TypeFloat, Default: 5.0},
			{ID: "trim", Type: appspec.TypeBool, Default: false},
			{ID: "srr_ids", Type: appspec.TypeString, AllowMultiple: true},
			{ID: "output_path", Type: appspec.TypeFolder, Required: true},
			{ID: "output_file", Type: appspec.TypeWSID, Required: true},
		},
	}
}

func minimalSubmission() Set {
	return Set{
		"output_path": "/user@patricbrc.org/home",
		"output_file": "my_assembly",
	}
}

func TestValidateMissingRequired(t *testing.T) {
	spec := assemblySpec()

	result := Validate(spec, Set{"output_path": "/user@patricbrc.org/home"}, Options{})
	if result.Valid() {
		t.Fatalf("expected validation errors")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	err := result.Errors[0]
	if err.Kind != KindMissingRequired || err.ID != "output_file" {
		t.Fatalf("error = %+v, want MissingRequired for output_file", err)
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	spec := assemblySpec()

	result := Validate(spec, minimalSubmission(), Options{})
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	want := Set{
		"paired_end_libs": nil,
		"recipe":          "auto",
		"racon_iter":      2,
		"min_contig_cov":  5.0,
		"trim":            false,
		"srr_ids":         nil,
		"output_path":     "/user@patricbrc.org/home",
		"output_file":     "my_assembly",
	}
	if diff := cmp.Diff(want, result.Normalized); diff != "" {
		t.Fatalf("normalized mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateEnumMembership(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["recipe"] = "spades"
	result := Validate(spec, submission, Options{})
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if got := result.Normalized["recipe"]; got != "spades" {
		t.Fatalf("recipe = %v, want spades unchanged", got)
	}

	submission["recipe"] = "velvet"
	result = Validate(spec, submission, Options{})
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	err := result.Errors[0]
	if err.Kind != KindInvalidEnum || err.ID != "recipe" {
		t.Fatalf("error = %+v, want InvalidEnum for recipe", err)
	}
	wantAllowed := []string{"auto", "unicycler", "canu", "spades", "meta-spades", "plasmid-spades", "single-cell"}
	if diff := cmp.Diff(wantAllowed, err.Allowed); diff != "" {
		t.Fatalf("allowed mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["racon_iter"] = "two"
	result := Validate(spec, submission, Options{})
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	err := result.Errors[0]
	if err.Kind != KindTypeMismatch || err.ID != "racon_iter" || err.Expected != appspec.TypeInt {
		t.Fatalf("error = %+v, want TypeMismatch with expected int", err)
	}
}

func TestValidateCoercesNumericStrings(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["racon_iter"] = "3"
	submission["min_contig_cov"] = "7.5"
	submission["trim"] = "true"
	result := Validate(spec, submission, Options{})
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if got := result.Normalized["racon_iter"]; got != 3 {
		t.Fatalf("racon_iter = %v (%T), want 3", got, got)
	}
	if got := result.Normalized["min_contig_cov"]; got != 7.5 {
		t.Fatalf("min_contig_cov = %v, want 7.5", got)
	}
	if got := result.Normalized["trim"]; got != true {
		t.Fatalf("trim = %v, want true", got)
	}
}

func TestValidateIdempotent(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["paired_end_libs"] = []any{
		map[string]any{"read1": "sample_R1.fastq", "read2": "sample_R2.fastq"},
	}
	submission["srr_ids"] = "SRR5070677"

	first := Validate(spec, submission, Options{})
	if !first.Valid() {
		t.Fatalf("unexpected errors: %v", first.Errors)
	}

	second := Validate(spec, first.Normalized, Options{Strict: true})
	if !second.Valid() {
		t.Fatalf("re-validation errors: %v", second.Errors)
	}
	if diff := cmp.Diff(first.Normalized, second.Normalized); diff != "" {
		t.Fatalf("normalization not idempotent (-first +second):\n%s", diff)
	}
}

func TestValidateWrapsMultiValueDefault(t *testing.T) {
	spec := appspec.AppSpec{
		ID: "GenomeAssembly",
		Parameters: []appspec.ParameterSpec{
			{ID: "srr_ids", Type: appspec.TypeString, AllowMultiple: true, Default: "SRR000001"},
			{ID: "output_path", Type: appspec.TypeFolder, Required: true},
		},
	}

	first := Validate(spec, Set{"output_path": "/home/me"}, Options{})
	if !first.Valid() {
		t.Fatalf("unexpected errors: %v", first.Errors)
	}
	want := []any{"SRR000001"}
	if diff := cmp.Diff(want, first.Normalized["srr_ids"]); diff != "" {
		t.Fatalf("filled default mismatch (-want +got):\n%s", diff)
	}

	second := Validate(spec, first.Normalized, Options{Strict: true})
	if !second.Valid() {
		t.Fatalf("re-validation errors: %v", second.Errors)
	}
	if diff := cmp.Diff(first.Normalized, second.Normalized); diff != "" {
		t.Fatalf("normalization not idempotent (-first +second):\n%s", diff)
	}
}

func TestValidateWrapsMultiValueDefaultWhenIgnored(t *testing.T) {
	spec := appspec.AppSpec{
		ID: "GenomeAssembly",
		Parameters: []appspec.ParameterSpec{
			{
				ID:            "srr_ids",
				Type:          appspec.TypeString,
				AllowMultiple: true,
				Default:       "SRR000001",
				Status:        appspec.StatusDeprecated,
			},
		},
	}

	result := Validate(spec, Set{"srr_ids": "SRR999999"}, Options{Unsupported: UnsupportedIgnore})
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	want := []any{"SRR000001"}
	if diff := cmp.Diff(want, result.Normalized["srr_ids"]); diff != "" {
		t.Fatalf("ignored default mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateDefaultEchoDoesNotWarn(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["paired_end_libs"] = []any{
		map[string]any{"read1": "a_R1.fastq"},
	}

	first := Validate(spec, submission, Options{})
	if !first.Valid() || len(first.Warnings) != 0 {
		t.Fatalf("first pass: errors=%v warnings=%v", first.Errors, first.Warnings)
	}

	// The normalized set carries interleaved=false filled from the planned
	// spec's default; feeding it back in must not re-trigger the warning.
	second := Validate(spec, first.Normalized, Options{Strict: true})
	if !second.Valid() {
		t.Fatalf("re-validation errors: %v", second.Errors)
	}
	if len(second.Warnings) != 0 {
		t.Fatalf("default echo warned: %v", second.Warnings)
	}
}

func TestValidateMultipleGroupScopesErrorsByIndex(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["paired_end_libs"] = []any{
		map[string]any{"read1": "a_R1.fastq", "read2": "a_R2.fastq"},
		map[string]any{"read2": "b_R2.fastq"},
	}
	result := Validate(spec, submission, Options{})
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	err := result.Errors[0]
	if err.Kind != KindMissingRequired || err.ID != "read1" {
		t.Fatalf("error = %+v, want MissingRequired for read1", err)
	}
	if err.Path != "paired_end_libs[1].read1" {
		t.Fatalf("path = %q, want paired_end_libs[1].read1", err.Path)
	}
}

func TestValidateMultiplicityViolation(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["recipe"] = []any{"spades", "canu"}
	result := Validate(spec, submission, Options{})
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	if got := result.Errors[0].Kind; got != KindMultiplicityViolation {
		t.Fatalf("kind = %v, want MultiplicityViolation", got)
	}
}

func TestValidateWrapsBareMultiValue(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["srr_ids"] = "SRR5070677"
	result := Validate(spec, submission, Options{})
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	want := []any{"SRR5070677"}
	if diff := cmp.Diff(want, result.Normalized["srr_ids"]); diff != "" {
		t.Fatalf("srr_ids mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateUnknownParameters(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["bogus"] = 42

	relaxed := Validate(spec, submission, Options{})
	if !relaxed.Valid() {
		t.Fatalf("unexpected errors: %v", relaxed.Errors)
	}
	if _, ok := relaxed.Normalized["bogus"]; ok {
		t.Fatalf("expected unknown id to be dropped under non-strict validation")
	}

	strict := Validate(spec, submission, Options{Strict: true})
	if len(strict.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", strict.Errors)
	}
	err := strict.Errors[0]
	if err.Kind != KindUnknownParameter || err.ID != "bogus" {
		t.Fatalf("error = %+v, want UnknownParameter for bogus", err)
	}
}

func TestValidateUnsupportedPolicies(t *testing.T) {
	spec := assemblySpec()

	build := func() Set {
		s := minimalSubmission()
		s["paired_end_libs"] = []any{
			map[string]any{"read1": "a_R1.fastq", "interleaved": true},
		}
		return s
	}

	warn := Validate(spec, build(), Options{})
	if !warn.Valid() {
		t.Fatalf("unexpected errors: %v", warn.Errors)
	}
	if len(warn.Warnings) != 1 || warn.Warnings[0].Kind != KindUnsupportedParameter {
		t.Fatalf("warnings = %v, want one UnsupportedParameter", warn.Warnings)
	}

	reject := Validate(spec, build(), Options{Unsupported: UnsupportedReject})
	if len(reject.Errors) != 1 || reject.Errors[0].Kind != KindUnsupportedParameter {
		t.Fatalf("errors = %v, want one UnsupportedParameter", reject.Errors)
	}
	if reject.Errors[0].Path != "paired_end_libs[0].interleaved" {
		t.Fatalf("path = %q, want paired_end_libs[0].interleaved", reject.Errors[0].Path)
	}

	ignore := Validate(spec, build(), Options{Unsupported: UnsupportedIgnore})
	if !ignore.Valid() {
		t.Fatalf("unexpected errors: %v", ignore.Errors)
	}
	libs := ignore.Normalized["paired_end_libs"].([]any)
	entry := libs[0].(Set)
	if got := entry["interleaved"]; got != false {
		t.Fatalf("interleaved = %v, want default false", got)
	}
}

func TestValidateDoesNotMutateSubmission(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	entry := map[string]any{"read1": "a_R1.fastq"}
	submission["paired_end_libs"] = []any{entry}

	result := Validate(spec, submission, Options{})
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	if len(entry) != 1 {
		t.Fatalf("submission entry mutated: %v", entry)
	}
	libs := result.Normalized["paired_end_libs"].([]any)
	normalized := libs[0].(Set)
	if got := normalized["platform"]; got != "infer" {
		t.Fatalf("platform = %v, want default infer", got)
	}
}

func TestValidateRequiredEmptyString(t *testing.T) {
	spec := assemblySpec()

	submission := minimalSubmission()
	submission["output_file"] = ""
	result := Validate(spec, submission, Options{})
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	err := result.Errors[0]
	if err.Kind != KindTypeMismatch || err.ID != "output_file" {
		t.Fatalf("error = %+v, want TypeMismatch for empty output_file", err)
	}
}
