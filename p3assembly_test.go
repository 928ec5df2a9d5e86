package p3assembly

import (
	"context"
	"testing"

	"github.com/olsonanl/p3-assembly/pkg/params"
)

func TestGenomeAssemblySpec(t *testing.T) {
	spec, err := GenomeAssemblySpec(context.Background())
	if err != nil {
		t.Fatalf("embedded spec: %v", err)
	}
	if spec.ID != "GenomeAssembly" {
		t.Fatalf("spec id = %q", spec.ID)
	}
	for _, id := range []string{"paired_end_libs", "recipe", "genome_size", "output_path", "output_file"} {
		if _, ok := spec.Parameter(id); !ok {
			t.Fatalf("missing parameter %q", id)
		}
	}
}

func TestValidateSubmissionGenomeSize(t *testing.T) {
	spec, err := GenomeAssemblySpec(context.Background())
	if err != nil {
		t.Fatalf("embedded spec: %v", err)
	}

	submission := params.Set{
		"output_path": "/user@patricbrc.org/home",
		"output_file": "assembly1",
		"genome_size": "300k",
	}
	result := ValidateSubmission(spec, submission, params.Options{})
	if !result.Valid() {
		t.Fatalf("valid submission rejected: %v", result.Errors)
	}

	submission["genome_size"] = "12x"
	result = ValidateSubmission(spec, submission, params.Options{})
	if result.Valid() {
		t.Fatal("bad genome size accepted")
	}
	var found bool
	for _, verr := range result.Errors {
		if verr.ID == "genome_size" && verr.Kind == params.KindTypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected genome_size type mismatch, got %v", result.Errors)
	}
}

func TestValidGenomeSize(t *testing.T) {
	for raw, want := range map[string]bool{
		"5m":      true,
		"300k":    true,
		"1.1g":    true,
		"4500000": true,
		"5M":      true,
		"":        false,
		"m5":      false,
		"5mb":     false,
		"five":    false,
	} {
		if got := ValidGenomeSize(raw); got != want {
			t.Errorf("ValidGenomeSize(%q) = %v, want %v", raw, got, want)
		}
	}
}
