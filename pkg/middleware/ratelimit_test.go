package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func request(remote string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/authnet/payment", nil)
	r.RemoteAddr = remote
	return r
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := newRateLimiter(1, 2, zaptest.NewLogger(t))
	clock := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return clock }

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, request("10.0.0.1:5000"))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Different source port, same client.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("10.0.0.1:6000"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, request("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, rec.Code)

	clock = clock.Add(time.Second)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, request("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := newRateLimiter(1, 1, zaptest.NewLogger(t))
	clock := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return clock }

	rl.allow("a")
	clock = clock.Add(rl.cleanupInterval + time.Second)
	rl.allow("b")

	assert.Equal(t, 1, rl.cleanup())
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "b")
}

func TestRateLimiter_EvictsOldestAtCapacity(t *testing.T) {
	rl := newRateLimiter(1, 1, zaptest.NewLogger(t))
	rl.maxClients = 2
	clock := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return clock }

	rl.allow("a")
	clock = clock.Add(time.Millisecond)
	rl.allow("b")
	clock = clock.Add(time.Millisecond)
	rl.allow("c")

	assert.Len(t, rl.limiters, 2)
	assert.NotContains(t, rl.limiters, "a")
}

func TestRateLimiter_ShutdownTwice(t *testing.T) {
	rl := NewRateLimiter(1, 1, zaptest.NewLogger(t))
	rl.Shutdown()
	assert.NotPanics(t, rl.Shutdown)
}
