package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ototamirci/backend/internal/api/response"
	"github.com/ototamirci/backend/internal/domain/providers"
	"github.com/ototamirci/backend/internal/infrastructure/observability"
	"github.com/ototamirci/backend/pkg/config"
	"golang.org/x/time/rate"
)

const (
	// localLimiterIdle is how long an unused per-key limiter is kept in memory
	localLimiterIdle = 30 * time.Minute
	// localSweepInterval bounds how often idle limiters are looked for
	localSweepInterval = time.Minute
)

// RateLimiter enforces fixed-window quotas per client IP. Counters live in
// the shared store when one is configured; if the store is missing or fails,
// a process-local token bucket with the same average rate takes over.
type RateLimiter struct {
	store      providers.CounterStore
	metrics    *observability.Metrics
	trustProxy bool

	mu        sync.Mutex
	local     map[string]*localLimiter
	lastSweep time.Time
	now       func() time.Time
}

type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter. store may be nil. Forwarding headers are
// only used to identify clients when trustProxy is set.
func NewRateLimiter(store providers.CounterStore, metrics *observability.Metrics, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		store:      store,
		metrics:    metrics,
		trustProxy: trustProxy,
		local:      make(map[string]*localLimiter),
		now:        time.Now,
	}
}

// Limit returns middleware applying rule under the given name. Rejections
// answer 429 with Retry-After and message in the envelope.
func (l *RateLimiter) Limit(name string, rule config.RateLimitRule, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := name + ":" + ClientIP(r, l.trustProxy)

			allowed, retryAfter := l.allow(r, key, rule)
			if !allowed {
				observability.RecordRateLimitRejection(r.Context(), l.metrics, name)
				w.Header().Set("Retry-After", strconv.Itoa(retrySeconds(retryAfter)))
				response.Error(w, http.StatusTooManyRequests, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (l *RateLimiter) allow(r *http.Request, key string, rule config.RateLimitRule) (bool, time.Duration) {
	if l.store != nil {
		count, remaining, err := l.store.Increment(r.Context(), key, rule.Window)
		if err == nil {
			return count <= int64(rule.Limit), remaining
		}
		observability.LoggerFromContext(r.Context()).Warn().
			Err(err).
			Str("key", key).
			Msg("rate limit store unavailable, using local limiter")
	}

	return l.allowLocal(key, rule)
}

func (l *RateLimiter) allowLocal(key string, rule config.RateLimitRule) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= localSweepInterval {
		for k, entry := range l.local {
			if now.Sub(entry.lastSeen) > localLimiterIdle {
				delete(l.local, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.local[key]
	if !ok {
		every := rule.Window / time.Duration(max(rule.Limit, 1))
		entry = &localLimiter{limiter: rate.NewLimiter(rate.Every(every), rule.Limit)}
		l.local[key] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, rule.Window
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func retrySeconds(d time.Duration) int {
	seconds := int((d + time.Second - 1) / time.Second)
	return max(seconds, 1)
}

// ClientIP returns the connection's remote address. With trustProxy it
// prefers the first X-Forwarded-For hop, then X-Real-IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		return forwardedIP(r)
	}
	return remoteIP(r)
}

func forwardedIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return remoteIP(r)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
