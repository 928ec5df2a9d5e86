package appspec

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// SourceKind enumerates where schema documents may come from.
type SourceKind int

const (
	SourceKindFile SourceKind = iota
	SourceKindFS
	SourceKindURL
)

func (k SourceKind) String() string {
	switch k {
	case SourceKindFile:
		return "file"
	case SourceKindFS:
		return "fs"
	case SourceKindURL:
		return "url"
	default:
		return "unknown"
	}
}

// Format identifies a schema document encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatUnknown Format = "unknown"
)

// Source names the origin of a schema document. The zero value is not a
// usable source; construct one with SourceFromFile, SourceFromFS, or
// SourceFromURL.
type Source struct {
	kind     SourceKind
	location string
}

// SourceFromFile points at an on-disk schema document.
func SourceFromFile(p string) Source {
	return Source{kind: SourceKindFile, location: filepath.Clean(p)}
}

// SourceFromFS points at an entry inside the fs.FS a loader is configured
// with, such as the embedded schema collection.
func SourceFromFS(name string) Source {
	return Source{kind: SourceKindFS, location: name}
}

// SourceFromURL points at an HTTP or HTTPS endpoint serving a schema
// document.
func SourceFromURL(raw string) (Source, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Source{}, fmt.Errorf("appspec: invalid URL %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Source{}, fmt.Errorf("appspec: URL %q must use http or https", raw)
	}
	return Source{kind: SourceKindURL, location: raw}, nil
}

func (s Source) Kind() SourceKind { return s.kind }

func (s Source) Location() string { return s.location }

// IsZero reports whether the source was never constructed.
func (s Source) IsZero() bool { return s.location == "" }

// Format guesses the document encoding from the location's extension.
// Locations without a telling extension report FormatUnknown; Document.Format
// falls back to sniffing the payload in that case.
func (s Source) Format() Format {
	location := s.location
	if s.kind == SourceKindURL {
		if parsed, err := url.Parse(location); err == nil {
			location = parsed.Path
		}
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// Document pairs a schema payload with its origin. Payloads are copied on the
// way in and out, so a Document never aliases caller memory.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument wraps a fetched payload. Blank payloads are rejected here so
// parsers can assume there is something to decode.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src.IsZero() {
		return Document{}, errors.New("appspec: document source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("appspec: document payload is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin of the document.
func (d Document) Source() Source { return d.source }

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the origin identifier, empty for the zero Document.
func (d Document) Location() string {
	return d.source.Location()
}

// Format reports the document encoding, preferring the source extension and
// falling back to sniffing the payload: app-spec JSON documents open with an
// object brace, everything else is treated as YAML.
func (d Document) Format() Format {
	if f := d.source.Format(); f != FormatUnknown {
		return f
	}
	trimmed := bytes.TrimLeft(d.raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}
