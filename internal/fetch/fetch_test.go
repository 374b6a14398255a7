package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestFetch tests page retrieval over HTTP.
func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns page with status, content type and body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html><body>hello</body></html>"))
		}))
		defer server.Close()

		f := New(server.Client())
		page, err := f.Fetch(context.Background(), server.URL+"/index.html")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if page.URL != server.URL+"/index.html" {
			t.Errorf("page.URL = %q, want %q", page.URL, server.URL+"/index.html")
		}
		if !page.IsSuccess() {
			t.Errorf("IsSuccess() = false, status = %d", page.StatusCode)
		}
		if !page.IsHTML() {
			t.Errorf("IsHTML() = false, content type = %q", page.ContentType)
		}
		if !strings.Contains(string(page.Body), "hello") {
			t.Errorf("body = %q, want it to contain hello", page.Body)
		}
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		f := New(server.Client(), WithUserAgent("test-agent/0.1"))
		if _, err := f.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotUA != "test-agent/0.1" {
			t.Errorf("User-Agent = %q, want %q", gotUA, "test-agent/0.1")
		}
	})

	t.Run("non-2xx responses are returned, not errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		f := New(server.Client())
		page, err := f.Fetch(context.Background(), server.URL+"/missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want %d", page.StatusCode, http.StatusNotFound)
		}
		if page.IsSuccess() {
			t.Error("IsSuccess() = true for 404 response")
		}
	})

	t.Run("slow server hits the timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}))
		defer server.Close()

		f := New(server.Client(), WithTimeout(50*time.Millisecond))
		if _, err := f.Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected timeout error, got nil")
		}
	})

	t.Run("body read is capped at max body size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(strings.Repeat("x", 4096)))
		}))
		defer server.Close()

		f := New(server.Client(), WithMaxBodySize(1024))
		page, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Body) != 1024 {
			t.Errorf("len(Body) = %d, want 1024", len(page.Body))
		}
	})

	t.Run("canceled context aborts the fetch", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := New(server.Client())
		if _, err := f.Fetch(ctx, server.URL); err == nil {
			t.Error("expected context error, got nil")
		}
	})

	t.Run("invalid URL is a fetch error", func(t *testing.T) {
		t.Parallel()

		f := New(nil)
		if _, err := f.Fetch(context.Background(), "http://[::1]:namedport/"); err == nil {
			t.Error("expected error for invalid URL, got nil")
		}
	})
}

// TestNewDefaults tests option fallbacks.
func TestNewDefaults(t *testing.T) {
	t.Parallel()

	f := New(nil, WithTimeout(0), WithUserAgent(""), WithMaxBodySize(-1))
	if f.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", f.Timeout(), DefaultTimeout)
	}
	if f.userAgent != DefaultUserAgent {
		t.Errorf("userAgent = %q, want %q", f.userAgent, DefaultUserAgent)
	}
	if f.maxBodySize != DefaultMaxBodySize {
		t.Errorf("maxBodySize = %d, want %d", f.maxBodySize, DefaultMaxBodySize)
	}
}
