package loader

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Source opens asset bytes by slash-separated path.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSSource reads assets from a file system.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FS == nil {
		return nil, fmt.Errorf("loader: open %s: no file system", name)
	}
	f, err := s.FS.Open(strings.TrimPrefix(path.Clean(name), "/"))
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", name, err)
	}
	return f, nil
}

// HTTPSource fetches assets relative to a base URL.
type HTTPSource struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTPSource parses base and builds a client with the given timeout.
func NewHTTPSource(base string, timeout time.Duration) (*HTTPSource, error) {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("loader: base url: %w", err)
	}
	return &HTTPSource{Base: u, Client: &http.Client{Timeout: timeout}}, nil
}

func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Base.ResolveReference(ref).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", name, err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: fetch %s: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("loader: fetch %s: status %s", name, resp.Status)
	}
	return resp.Body, nil
}

// DecodeImage decodes a PNG or JPEG stream.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("loader: decode: %w", err)
	}
	return img, nil
}

// OpenImage opens and decodes name from src.
func OpenImage(ctx context.Context, src Source, name string) (image.Image, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, err := DecodeImage(rc)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, name)
	}
	return img, nil
}
