package imagecheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestIsValidImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cat.png":
			w.Header().Set("Content-Type", "image/png")
		case "/charset.jpg":
			w.Header().Set("Content-Type", "image/jpeg; charset=utf-8")
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	checker := New(time.Second)
	tests := []struct {
		path string
		want bool
	}{
		{"/cat.png", true},
		{"/charset.jpg", true},
		{"/page.html", false},
		{"/missing", false},
	}
	for _, tt := range tests {
		if got := checker.IsValidImage(context.Background(), srv.URL+tt.path); got != tt.want {
			t.Errorf("IsValidImage(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestUnreachableHostFailsClosed(t *testing.T) {
	checker := New(100 * time.Millisecond)
	if checker.IsValidImage(context.Background(), "https://127.0.0.1:1/cat.png") {
		t.Fatal("unreachable host must not validate")
	}
}

func TestTransientErrorIsNotCached(t *testing.T) {
	var unavailable atomic.Bool
	unavailable.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unavailable.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
	}))
	defer srv.Close()

	checker := New(time.Second)
	url := srv.URL + "/cat.png"
	if checker.IsValidImage(context.Background(), url) {
		t.Fatal("503 response must not validate")
	}

	// The outage ends; the same URL must be able to validate now.
	unavailable.Store(false)
	if !checker.IsValidImage(context.Background(), url) {
		t.Fatal("URL stayed invalid after the outage ended")
	}
}

func TestResultIsCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
	}))
	defer srv.Close()

	checker := New(time.Second)
	url := srv.URL + "/cat.png"
	for i := 0; i < 3; i++ {
		if !checker.IsValidImage(context.Background(), url) {
			t.Fatal("expected valid image")
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("server hit %d times, want 1", hits.Load())
	}
}
