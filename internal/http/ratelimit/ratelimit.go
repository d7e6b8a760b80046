// Package ratelimit provides per-client-IP rate limiting for the
// endpoints that fan out to the scheduling backend, so one misbehaving
// browser cannot exhaust the upstream quota for everyone.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedIPs caps the limiter map so an address scan cannot grow it
// without bound.
const maxTrackedIPs = 10000

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu             sync.Mutex
	limiters       map[string]*limiterEntry
	rate           rate.Limit
	burst          int
	idleAfter      time.Duration
	trustedProxies []*net.IPNet
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewIPRateLimiter creates a limiter allowing r requests per second with
// the given burst per IP. Entries idle longer than roughly 2x idleAfter
// are dropped. trustedProxies lists CIDR ranges (or bare IPs) of reverse
// proxies whose forwarding headers may be believed; when empty, every
// proxy is trusted.
func NewIPRateLimiter(r rate.Limit, burst int, idleAfter time.Duration, trustedProxies []string) *IPRateLimiter {
	l := &IPRateLimiter{
		limiters:       make(map[string]*limiterEntry),
		rate:           r,
		burst:          burst,
		idleAfter:      idleAfter,
		trustedProxies: parseTrustedProxies(trustedProxies),
	}

	go l.reapIdle()

	return l
}

func parseTrustedProxies(specs []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, spec := range specs {
		if _, ipnet, err := net.ParseCIDR(spec); err == nil {
			nets = append(nets, ipnet)
			continue
		}
		ip := net.ParseIP(spec)
		if ip == nil {
			continue
		}
		suffix := "/32"
		if ip.To4() == nil {
			suffix = "/128"
		}
		if _, ipnet, err := net.ParseCIDR(spec + suffix); err == nil {
			nets = append(nets, ipnet)
		}
	}
	return nets
}

// Middleware rejects requests over the per-IP limit with 429.
func (l *IPRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(l.clientIP(r)) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *IPRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxTrackedIPs {
			l.evictOldestLocked()
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	l.mu.Unlock()

	return limiter.Allow()
}

func (l *IPRateLimiter) evictOldestLocked() {
	var oldestIP string
	var oldest time.Time
	for ip, entry := range l.limiters {
		if oldestIP == "" || entry.lastAccess.Before(oldest) {
			oldestIP = ip
			oldest = entry.lastAccess
		}
	}
	if oldestIP != "" {
		delete(l.limiters, oldestIP)
	}
}

func (l *IPRateLimiter) reapIdle() {
	ticker := time.NewTicker(l.idleAfter)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-l.idleAfter * 2)
		l.mu.Lock()
		for ip, entry := range l.limiters {
			if entry.lastAccess.Before(cutoff) {
				delete(l.limiters, ip)
			}
		}
		l.mu.Unlock()
	}
}

// clientIP resolves the address the limit is keyed on. Forwarding
// headers are only honored when the direct peer is a trusted proxy.
func (l *IPRateLimiter) clientIP(r *http.Request) string {
	remoteIP := parseIP(r.RemoteAddr)

	if len(l.trustedProxies) > 0 {
		trusted := false
		for _, ipnet := range l.trustedProxies {
			if ipnet.Contains(remoteIP) {
				trusted = true
				break
			}
		}
		if !trusted {
			return remoteIP.String()
		}
	}

	// X-Forwarded-For lists client, proxy1, proxy2; the leftmost entry
	// is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if parsed := net.ParseIP(first); parsed != nil {
			return parsed.String()
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if parsed := net.ParseIP(xri); parsed != nil {
			return parsed.String()
		}
	}

	return remoteIP.String()
}

func parseIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}
