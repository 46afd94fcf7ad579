package io

import (
	"context"
	"fmt"
	stdio "io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Fetcher retrieves the bytes behind a manifest reference. Failures are
// reported as *NetworkError.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, ref string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return f(ctx, ref)
}

// HTTPFetcher issues GET requests. Any status outside 2xx is an error.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, &NetworkError{URL: ref, Err: err}
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: ref, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = stdio.Copy(stdio.Discard, resp.Body)
		return nil, &NetworkError{URL: ref, Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	}

	data, err := stdio.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: ref, Err: err}
	}
	return data, nil
}

// FileFetcher reads slash separated references from a file system.
type FileFetcher struct {
	FS fs.FS
}

func (f *FileFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &NetworkError{URL: ref, Err: err}
	}
	name := path.Clean(strings.TrimPrefix(ref, "/"))
	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return nil, &NetworkError{URL: ref, Err: err}
	}
	return data, nil
}

// RoutingFetcher sends http and https references to Remote and everything
// else to Local.
type RoutingFetcher struct {
	Remote Fetcher
	Local  Fetcher
}

func (f *RoutingFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if isRemote(ref) {
		if f.Remote == nil {
			return nil, &NetworkError{URL: ref, Err: fmt.Errorf("no remote fetcher configured")}
		}
		return f.Remote.Fetch(ctx, ref)
	}
	if f.Local == nil {
		return nil, &NetworkError{URL: ref, Err: fmt.Errorf("no local fetcher configured")}
	}
	return f.Local.Fetch(ctx, ref)
}

// Resolve interprets ref relative to the document at base. Absolute URLs
// and rooted paths are returned unchanged.
func Resolve(base, ref string) string {
	if isRemote(ref) || strings.HasPrefix(ref, "/") {
		return ref
	}
	if isRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}
	return path.Join(path.Dir(base), ref)
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
