package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"pomodoroTracker/internal/logger"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type clientInfo struct {
	count   int
	resetAt time.Time
}

// RateLimiter ограничивает число запросов с одного IP в окне фиксированной длины
type RateLimiter struct {
	rpm     int
	window  time.Duration
	clock   clockwork.Clock
	mtx     sync.Mutex
	clients map[string]*clientInfo
}

func NewRateLimiter(rpm int, c clockwork.Clock) *RateLimiter {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &RateLimiter{
		rpm:     rpm,
		window:  time.Minute,
		clock:   c,
		clients: make(map[string]*clientInfo),
	}
}

// RateLimit с системными часами, rpm <= 0 отключает ограничение
func RateLimit(rpm int) func(http.Handler) http.Handler {
	return NewRateLimiter(rpm, nil).Middleware
}

// allow учитывает запрос и возвращает остаток и момент сброса окна
func (l *RateLimiter) allow(ip string) (bool, int, time.Time) {
	now := l.clock.Now()

	l.mtx.Lock()
	defer l.mtx.Unlock()

	info, exists := l.clients[ip]
	switch {
	case !exists:
		l.evictExpired(now)
		info = &clientInfo{count: 1, resetAt: now.Add(l.window)}
		l.clients[ip] = info
	case !now.Before(info.resetAt):
		info.count = 1
		info.resetAt = now.Add(l.window)
	case info.count >= l.rpm:
		return false, 0, info.resetAt
	default:
		info.count++
	}

	return true, max(l.rpm-info.count, 0), info.resetAt
}

// evictExpired убирает клиентов с истёкшим окном, вызывается под mtx
func (l *RateLimiter) evictExpired(now time.Time) {
	for ip, info := range l.clients {
		if !now.Before(info.resetAt) {
			delete(l.clients, ip)
		}
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l.rpm <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIp(r)
		allowed, remaining, resetAt := l.allow(ip)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.rpm))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			logger.Warn("HTTP: Превышен лимит запросов",
				zap.String("client_ip", ip),
				zap.String("request_id", GetRequestID(r.Context())))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":       "rate_limit_exceeded",
				"message":     "Слишком много запросов. Попробуйте позже.",
				"retry_after": int(resetAt.Sub(l.clock.Now()).Seconds()),
				"request_id":  GetRequestID(r.Context()),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
