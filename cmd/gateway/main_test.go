package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestNewPagesHandler_ProxiesToUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream-Path", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	h, err := newPagesHandler(upstream.URL, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://gateway/casinos/bellagio", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Upstream-Path"); got != "/casinos/bellagio" {
		t.Fatalf("expected path to be forwarded, got %q", got)
	}
}

func TestNewPagesHandler_NoUpstreamIs404(t *testing.T) {
	h, err := newPagesHandler("", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://gateway/", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestNewPagesHandler_RejectsRelativeURL(t *testing.T) {
	if _, err := newPagesHandler("localhost:3000", zap.NewNop()); err == nil {
		t.Fatalf("expected error for URL without scheme")
	}
}
