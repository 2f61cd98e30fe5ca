package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	handler := RateLimitMiddleware(1, 2)(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest("GET", "/vision/stats", http.NoBody)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d within burst: got %d", i, code)
		}
	}
	if code := send("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("over burst: got %d, want 429", code)
	}
	if code := send("10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("other client: got %d, want 200", code)
	}
}

func TestRateLimitMiddleware_BudgetSharedAcrossHandlers(t *testing.T) {
	mw := RateLimitMiddleware(1, 1)
	similar, stats := mw(okHandler()), mw(okHandler())

	rr := httptest.NewRecorder()
	similar.ServeHTTP(rr, httptest.NewRequest("GET", "/artworks/a1/similar", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("first: got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	stats.ServeHTTP(rr, httptest.NewRequest("GET", "/vision/stats", http.NoBody))
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("second handler: got %d, want 429", rr.Code)
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	handler := RateLimitMiddleware(0, 0)(okHandler())
	for i := 0; i < 10; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/vision/stats", http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, rr.Code)
		}
	}
}

func TestRateLimitMiddleware_ExemptHealth(t *testing.T) {
	handler := RateLimitMiddleware(1, 1)(okHandler())
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("health %d: got %d", i, rr.Code)
		}
	}
}

func TestClientLimiters_SweepsIdle(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newClientLimiters(1, 1)
	l.now = func() time.Time { return now }

	l.allow("ip:a")
	now = now.Add(limiterIdleTTL + time.Second)
	l.allow("ip:b")

	if _, ok := l.clients["ip:a"]; ok {
		t.Error("expected idle limiter to be swept")
	}
	if len(l.clients) != 1 {
		t.Errorf("expected 1 limiter, got %d", len(l.clients))
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/", http.NoBody)
	req.RemoteAddr = "192.0.2.1:1234"
	if got := clientKey(req); got != "ip:192.0.2.1" {
		t.Errorf("ip key: got %q", got)
	}
	req.Header.Set("Authorization", "Bearer k1")
	if got := clientKey(req); got != "key:k1" {
		t.Errorf("token key: got %q", got)
	}
}

func TestJSONRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	handler := JSONRecoverer(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
	if logs.Len() != 1 {
		t.Errorf("expected 1 panic log, got %d", logs.Len())
	}
}

func TestWideEventMiddleware_LogsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := WideEventMiddleware(zap.New(core))(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/vision/stats", http.NoBody))

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Errorf("status field: got %v", got)
	}
}
