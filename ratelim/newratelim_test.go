package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

func TestLimitPerIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Limit(func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h(rec, req, nil)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := call("10.0.0.1:1234"); code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, code)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once burst is spent, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1000" {
		t.Fatalf("expected Retry-After of 1000s at 0.001 rps, got %q", got)
	}
	if code := call("10.0.0.2:1234"); code != http.StatusNoContent {
		t.Fatalf("other IPs must have their own bucket, got %d", code)
	}
}

func TestCleanupDropsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.getLimiter("10.0.0.1")

	now = now.Add(visitorTTL + time.Second)
	rl.Cleanup()
	if len(rl.visitors) != 0 {
		t.Fatalf("expected idle visitor to be dropped, have %d", len(rl.visitors))
	}
}

func TestRetryAfterAtLeastOneSecond(t *testing.T) {
	if got := NewRateLimiter(5, 10).retryAfter(); got != 1 {
		t.Fatalf("expected 1s at 5 rps, got %d", got)
	}
	if got := NewRateLimiter(0.5, 1).retryAfter(); got != 2 {
		t.Fatalf("expected 2s at 0.5 rps, got %d", got)
	}
}
