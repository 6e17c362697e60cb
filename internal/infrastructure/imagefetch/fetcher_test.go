package imagefetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch_ReturnsBodyAndContentType(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("webp-bytes"))
	}))
	defer server.Close()

	fetcher := New(Config{Timeout: time.Second})

	body, contentType, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) != "webp-bytes" {
		t.Fatalf("unexpected body %q", body)
	}
	if contentType != "image/webp" {
		t.Fatalf("unexpected content type %q", contentType)
	}
}

func TestFetch_RejectsNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := New(Config{Timeout: time.Second})

	if _, _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestFetch_RejectsEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer server.Close()

	fetcher := New(Config{Timeout: time.Second})

	if _, _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestFetch_RespectsCanceledContext(t *testing.T) {
	t.Parallel()

	fetcher := New(Config{Timeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := fetcher.Fetch(ctx, "http://127.0.0.1:1/never"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestFetch_RequiresURL(t *testing.T) {
	t.Parallel()

	fetcher := New(Config{Timeout: time.Second})

	if _, _, err := fetcher.Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}
