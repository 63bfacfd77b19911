package ratelimit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"casino-gateway/middleware/ratelimit/application"
	"casino-gateway/middleware/ratelimit/domain"
	"casino-gateway/middleware/ratelimit/infra"
)

func newLimiter() *application.Service {
	return application.NewService(infra.NewMemoryStore(infra.WithSweepProbability(0)))
}

func post(h http.Handler, path, ip string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "http://example"+path, nil)
	r.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestMiddleware_StrictRejectsAfterLimit(t *testing.T) {
	stats := infra.NewMemoryStatsStore()
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	h := Middleware(Options{
		Limiter:             newLimiter(),
		Stats:               stats,
		Profile:             domain.ProfileReview,
		AddRateLimitHeaders: true,
	})(next)

	for i, want := range []string{"2", "1", "0"} {
		w := post(h, "/api/reviews", "10.0.0.1")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Remaining"); got != want {
			t.Fatalf("request %d: expected remaining %s, got %q", i+1, want, got)
		}
		if got := w.Header().Get("X-RateLimit-Limit"); got != "3" {
			t.Fatalf("expected limit header 3, got %q", got)
		}
	}

	w := post(h, "/api/reviews", "10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected remaining 0, got %q", got)
	}
	if got := w.Header().Get("Retry-After"); got == "" || got == "0" {
		t.Fatalf("expected Retry-After to be set, got %q", got)
	}
	if got := w.Header().Get("X-RateLimit-Reset"); got != w.Header().Get("Retry-After") {
		t.Fatalf("expected X-RateLimit-Reset to match Retry-After, got %q", got)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["error"] == "" || body["retryAfter"] == nil {
		t.Fatalf("expected error and retryAfter in body, got %v", body)
	}

	if calls != 3 {
		t.Fatalf("expected next handler to be called 3 times, got %d", calls)
	}
	if got := stats.Total(); got.Allowed != 3 || got.Denied != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestMiddleware_LenientPassesThroughAndFlagsContext(t *testing.T) {
	stats := infra.NewMemoryStatsStore()
	tracked := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !Limited(r.Context()) {
			tracked++
		}
		w.WriteHeader(http.StatusOK)
	})

	h := Middleware(Options{
		Limiter: newLimiter(),
		Stats:   stats,
		Profile: domain.ProfileTracking,
		Config:  domain.Config{Window: time.Minute, MaxRequests: 3},
		Policy:  PolicyLenient,
	})(next)

	for i := 0; i < 4; i++ {
		if w := post(h, "/api/track/click", "10.0.0.1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	if tracked != 3 {
		t.Fatalf("expected 3 tracked requests, got %d", tracked)
	}
	if got := stats.Total(); got.Skipped != 1 || got.Denied != 0 {
		t.Fatalf("expected one skipped outcome, got %+v", got)
	}
}

func TestMiddleware_LimitsArePerPath(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := Middleware(Options{
		Limiter: newLimiter(),
		Config:  domain.Config{Window: time.Minute, MaxRequests: 1},
	})(next)

	if w := post(h, "/api/contact", "10.0.0.1"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := post(h, "/api/contact", "10.0.0.1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w := post(h, "/api/newsletter", "10.0.0.1"); w.Code != http.StatusOK {
		t.Fatalf("expected independent limit for other path, got %d", w.Code)
	}
	if w := post(h, "/api/contact", "10.0.0.2"); w.Code != http.StatusOK {
		t.Fatalf("expected independent limit for other client, got %d", w.Code)
	}
}

func TestMiddleware_NoLimiterPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok {
			t.Errorf("expected no decision in context")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	h := Middleware(Options{})(next)

	if w := post(h, "/api/contact", "10.0.0.1"); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}
