package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rw := httptest.NewRecorder()
		h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "http://example.com", nil))
		if rw.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rw.Code)
		}
	}

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "http://example.com", nil))
	if rw.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over the limit, got %d", rw.Code)
	}
}

func TestRateLimiter_SeparatesClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	first.Header.Set("X-Forwarded-For", "10.0.0.1")
	second := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	second.Header.Set("X-Forwarded-For", "10.0.0.2")

	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, first)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200 for first client, got %d", rw.Code)
	}
	rw = httptest.NewRecorder()
	h.ServeHTTP(rw, second)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200 for second client, got %d", rw.Code)
	}
}
