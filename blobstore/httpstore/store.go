// Package httpstore implements a read-only blobstore over HTTP.
//
// Blob names are resolved against a base URL, so a catalog published at
// https://example.com/data/index.json with snapshots next to it is served
// by:
//
//	store, err := httpstore.New("https://example.com/data/")
//	blob, err := store.Open(ctx, "sequoia.json")
package httpstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hupe1980/modelcompat/blobstore"
)

// StatusError is returned for non-2xx responses other than 404.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		if c != nil {
			s.client = c
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(s *Store) {
		s.header.Add(key, value)
	}
}

// Store reads blobs with HTTP GET requests relative to a base URL.
type Store struct {
	base   *url.URL
	client *http.Client
	header http.Header
}

var _ blobstore.BlobStore = (*Store)(nil)

// New creates a Store rooted at baseURL.
func New(baseURL string, optFns ...Option) (*Store, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpstore: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("httpstore: unsupported scheme %q", u.Scheme)
	}

	s := &Store{
		base:   u,
		client: http.DefaultClient,
		header: make(http.Header),
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s, nil
}

// URL returns the absolute URL for name.
func (s *Store) URL(name string) string {
	return s.base.ResolveReference(&url.URL{Path: name}).String()
}

// Open fetches the blob. The whole body is buffered; snapshot files are small.
// A 404 maps to blobstore.ErrNotFound, any other non-2xx to *StatusError.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	target := s.URL(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range s.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("GET %s: %w", target, blobstore.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	return &httpBlob{data: data}, nil
}

// Put is not supported.
func (s *Store) Put(context.Context, string, []byte) error {
	return blobstore.ErrReadOnly
}

// Delete is not supported.
func (s *Store) Delete(context.Context, string) error {
	return blobstore.ErrReadOnly
}

// List is not supported; HTTP has no directory listing contract.
func (s *Store) List(context.Context, string) ([]string, error) {
	return nil, blobstore.ErrReadOnly
}

type httpBlob struct {
	data []byte
}

func (b *httpBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *httpBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off >= int64(len(b.data)) {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	end := min(off+length, int64(len(b.data)))
	return io.NopCloser(bytes.NewReader(b.data[off:end])), nil
}

func (b *httpBlob) Close() error { return nil }

func (b *httpBlob) Size() int64 { return int64(len(b.data)) }
