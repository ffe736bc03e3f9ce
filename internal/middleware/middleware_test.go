package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pomodoroTracker/internal/logger"
	"pomodoroTracker/internal/middleware"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(middleware.GetRequestID(r.Context())))
}

// TestRequestID тестирует проброс и генерацию идентификатора запроса
func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"generated", ""},
		{"propagated", "req-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.RequestID(http.HandlerFunc(okHandler))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(middleware.RequestIdHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			id := rec.Header().Get(middleware.RequestIdHeader)
			require.NotEmpty(t, id)
			assert.Equal(t, id, rec.Body.String())
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, id)
			}
		})
	}
}

// TestLogging тестирует что обёртка не меняет ответ
func TestLogging(t *testing.T) {
	logger.InitNop()
	h := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

// TestRateLimit тестирует лимит на IP и сброс окна
func TestRateLimit(t *testing.T) {
	logger.InitNop()
	fake := clockwork.NewFakeClockAt(time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC))
	h := middleware.NewRateLimiter(2, fake).Middleware(http.HandlerFunc(okHandler))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := call("10.0.0.1:1000")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001").Code)

	limited := call("10.0.0.1:1002")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(limited.Body).Decode(&body))
	assert.Equal(t, "rate_limit_exceeded", body["error"])
	assert.Equal(t, float64(60), body["retry_after"])

	// другой клиент считается отдельно
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000").Code)

	fake.Advance(time.Minute)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1003").Code)
}

// TestRateLimit_Disabled тестирует отключённый лимит
func TestRateLimit_Disabled(t *testing.T) {
	h := middleware.RateLimit(0)(http.HandlerFunc(okHandler))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
