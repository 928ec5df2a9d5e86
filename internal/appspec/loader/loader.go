package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/olsonanl/p3-assembly/pkg/appspec"
)

// maxDocumentSize caps schema payloads. App-spec documents run a few KB;
// anything larger is a misdirected fetch, not a schema.
const maxDocumentSize = 1 << 20

// Loader resolves schema documents from disk, a configured fs.FS, or HTTP.
type Loader struct {
	files   fs.FS
	client  *http.Client
	timeout time.Duration
}

var _ appspec.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options. HTTP loading stays off
// unless the options supply a client or ask for the fallback one.
func New(options appspec.LoaderOptions) appspec.Loader {
	l := &Loader{files: options.FileSystem, timeout: options.RequestTimeout}
	switch {
	case options.HTTPClient != nil:
		l.client = options.HTTPClient
	case options.AllowHTTPFallback:
		l.client = &http.Client{Timeout: options.RequestTimeout}
	}
	return l
}

// Load fetches the document the source names and wraps it for parsing.
func (l *Loader) Load(ctx context.Context, src appspec.Source) (appspec.Document, error) {
	if src.IsZero() {
		return appspec.Document{}, errors.New("appspec loader: source is empty")
	}
	if err := ctx.Err(); err != nil {
		return appspec.Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case appspec.SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case appspec.SourceKindFS:
		data, err = l.readFS(src.Location())
	case appspec.SourceKindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("appspec loader: unsupported source kind %v", src.Kind())
	}
	if err != nil {
		return appspec.Document{}, err
	}
	if len(data) > maxDocumentSize {
		return appspec.Document{}, fmt.Errorf("appspec loader: %s exceeds %d bytes", src.Location(), maxDocumentSize)
	}
	return appspec.NewDocument(src, data)
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if l.files == nil {
		return nil, errors.New("appspec loader: no filesystem configured")
	}
	return fs.ReadFile(l.files, name)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.client == nil {
		return nil, errors.New("appspec loader: http loading is not enabled")
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("appspec loader: %s returned %s", url, resp.Status)
	}
	// One extra byte so Load can tell an at-limit payload from an oversized
	// one.
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
}
