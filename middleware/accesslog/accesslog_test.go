package accesslog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_LogsStatusAndClient(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	})
	h := Middleware(zap.New(core), func(*http.Request) string { return "1.2.3.4" })(next)

	r := httptest.NewRequest(http.MethodPost, "http://example/api/reviews", nil)
	r.Header.Set("X-Request-Id", "req-1")
	h.ServeHTTP(httptest.NewRecorder(), r)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level for 4xx, got %s", e.Level)
	}
	fields := e.ContextMap()
	if fields["status"] != int64(429) {
		t.Fatalf("expected status 429, got %v", fields["status"])
	}
	if fields["client"] != "1.2.3.4" {
		t.Fatalf("expected client field, got %v", fields["client"])
	}
	if fields["request_id"] != "req-1" {
		t.Fatalf("expected request_id field, got %v", fields["request_id"])
	}
	if fields["bytes"] != int64(len("slow down")) {
		t.Fatalf("expected bytes=%d, got %v", len("slow down"), fields["bytes"])
	}
}

func TestMiddleware_DefaultsTo200(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Middleware(zap.New(core), nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example/", nil))

	if got := logs.All()[0].ContextMap()["status"]; got != int64(200) {
		t.Fatalf("expected status 200, got %v", got)
	}
}
