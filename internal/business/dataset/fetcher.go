package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Fetcher abstracts how a remote resource is fetched so the loader can be tested without network calls.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher fetches resources over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher. The dataset is fetched once, best effort,
// so the client carries no timeout; the caller's context bounds the request.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch CSV: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return resp.Body, nil
}

// Source opens the CSV resource.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// FileSource reads the dataset from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string { return s.Path }

// HTTPSource fetches the dataset from a URL.
type HTTPSource struct {
	URL     string
	Fetcher Fetcher
}

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return s.Fetcher.Fetch(ctx, s.URL)
}

func (s HTTPSource) String() string { return s.URL }

// NewSource picks an HTTPSource for http(s) locations and a FileSource otherwise.
// A nil fetcher defaults to NewHTTPFetcher.
func NewSource(location string, fetcher Fetcher) Source {
	lower := strings.ToLower(strings.TrimSpace(location))
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if fetcher == nil {
			fetcher = NewHTTPFetcher()
		}
		return HTTPSource{URL: strings.TrimSpace(location), Fetcher: fetcher}
	}
	return FileSource{Path: location}
}
