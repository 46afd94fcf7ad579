package io

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.txt":
			w.Write([]byte("hello"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)

	data, err := f.Fetch(context.Background(), srv.URL+"/ok.txt")
	if err != nil || string(data) != "hello" {
		t.Fatalf("Fetch: got %q, %v", data, err)
	}

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.txt")
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Fetch: expected *NetworkError, got %v", err)
	}
	if ne.Status != http.StatusNotFound {
		t.Errorf("Fetch: expected status 404, got %d", ne.Status)
	}
}

func TestHTTPFetcherCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(time.Second).Fetch(ctx, srv.URL)
	var ne *NetworkError
	if !errors.As(err, &ne) || !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch: expected cancelled *NetworkError, got %v", err)
	}
}

func TestFileFetcher(t *testing.T) {
	f := &FileFetcher{FS: fstest.MapFS{
		"assets/a.vert": {Data: []byte("void main() {}")},
	}}

	data, err := f.Fetch(context.Background(), "assets/a.vert")
	if err != nil || string(data) != "void main() {}" {
		t.Fatalf("Fetch: got %q, %v", data, err)
	}
	if _, err := f.Fetch(context.Background(), "/assets/./a.vert"); err != nil {
		t.Errorf("Fetch: expected rooted path to resolve, got %v", err)
	}

	_, err = f.Fetch(context.Background(), "assets/missing.frag")
	var ne *NetworkError
	if !errors.As(err, &ne) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Fetch: expected not-exist *NetworkError, got %v", err)
	}
}

func TestRoutingFetcher(t *testing.T) {
	var got []string
	record := func(tag string) Fetcher {
		return FetcherFunc(func(ctx context.Context, ref string) ([]byte, error) {
			got = append(got, tag+":"+ref)
			return nil, nil
		})
	}
	f := &RoutingFetcher{Remote: record("remote"), Local: record("local")}

	f.Fetch(context.Background(), "https://example.com/a.png")
	f.Fetch(context.Background(), "textures/a.png")

	if len(got) != 2 || got[0] != "remote:https://example.com/a.png" || got[1] != "local:textures/a.png" {
		t.Errorf("RoutingFetcher: unexpected calls %v", got)
	}

	if _, err := (&RoutingFetcher{}).Fetch(context.Background(), "x"); err == nil {
		t.Error("RoutingFetcher: expected error without a local fetcher")
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		base, ref, want string
	}{
		{"scenes/demo.json", "shaders/a.vert", "scenes/shaders/a.vert"},
		{"scenes/demo.json", "../textures/b.png", "textures/b.png"},
		{"demo.json", "c.obj", "c.obj"},
		{"scenes/demo.json", "/abs/d.png", "/abs/d.png"},
		{"http://host/scenes/demo.json", "models/e.obj", "http://host/scenes/models/e.obj"},
		{"http://host/scenes/demo.json", "https://cdn/f.png", "https://cdn/f.png"},
	}
	for _, c := range cases {
		if got := Resolve(c.base, c.ref); got != c.want {
			t.Errorf("Resolve(%q, %q): expected %q, got %q", c.base, c.ref, c.want, got)
		}
	}
}
