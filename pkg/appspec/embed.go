package appspec

import (
	"embed"
	"io/fs"
)

//go:embed specs/*
var embeddedSpecs embed.FS

// GenomeAssemblySpecName is the embedded path of the canonical assembly
// service schema document.
const GenomeAssemblySpecName = "genome_assembly.json"

// EmbeddedFS returns the bundled schema documents. Callers may pass this
// filesystem to a loader together with SourceFromFS to use the shipped
// GenomeAssembly schema.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSpecs, "specs")
	if err != nil {
		// The embed directive guarantees the subpath exists, so panic is
		// acceptable here.
		panic(err)
	}
	return sub
}
