package appspec

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches schema documents from different sources (filesystem, fs.FS,
// HTTP). Implementations live under internal/appspec but satisfy this
// contract.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// Parser turns a raw schema document into an AppSpec, enforcing the schema
// invariants. Malformed documents produce a *SchemaError.
type Parser interface {
	Parse(ctx context.Context, doc Document) (AppSpec, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem enables loading from an abstract filesystem; defaults to the
	// operating system if nil.
	FileSystem fs.FS

	// HTTPClient allows callers to inject custom HTTP behaviour (timeouts,
	// proxies). Nil means HTTP sources are disabled unless AllowHTTPFallback
	// is true.
	HTTPClient *http.Client

	// AllowHTTPFallback toggles a default HTTP client when none is supplied.
	// Keeping this explicit preserves offline-first behaviour.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for relative paths.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote schema documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading using a default client and assigns an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// ParserOptions configures schema document parsing.
type ParserOptions struct {
	// RejectUnknownKeys fails parsing when a parameter entry carries keys
	// outside the documented set. Off by default; schema documents in the
	// wild carry stray annotation keys.
	RejectUnknownKeys bool
}

// ParserOption mutates ParserOptions prior to construction.
type ParserOption func(*ParserOptions)

// WithRejectUnknownKeys makes the parser fail on undocumented keys.
func WithRejectUnknownKeys() ParserOption {
	return func(opts *ParserOptions) {
		opts.RejectUnknownKeys = true
	}
}

// NewParserOptions applies a set of ParserOption values and returns the
// resulting configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
