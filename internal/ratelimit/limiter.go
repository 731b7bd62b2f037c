// Package ratelimit throttles the public contact form and the agent API
// on a per-IP basis.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	cleanupInterval = 3 * time.Minute
	staleAfter      = 5 * time.Minute
)

// Limiter holds one token bucket per client IP. Buckets for IPs not seen
// recently are dropped by a background sweep.
type Limiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter creates a per-IP limiter allowing rps requests per second with
// the given burst, and starts the stale-bucket sweep.
func NewLimiter(rps float64, burst int) *Limiter {
	l := &Limiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go l.sweep()
	return l
}

// Allow reports whether a request from ip should proceed, creating the IP's
// bucket on first sight.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{
			limiter: rate.NewLimiter(l.rps, l.burst),
		}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	l.mu.Unlock()

	return v.limiter.Allow()
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		for ip, v := range l.visitors {
			if time.Since(v.lastSeen) >= staleAfter {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}
