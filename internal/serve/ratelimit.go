package serve

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterCleanup = 5 * time.Minute
	limiterIdle    = 10 * time.Minute
)

// ipLimiter keeps one token bucket per client address.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterInfo
	// 每分钟允许的新连接数
	perMinute int
	burst     int
}

type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	return &ipLimiter{
		limiters:  make(map[string]*limiterInfo),
		perMinute: perMinute,
		burst:     burst,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	info, ok := l.limiters[ip]
	if !ok {
		info = &limiterInfo{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.burst),
		}
		l.limiters[ip] = info
	}
	info.lastAccessed = time.Now()
	l.mu.Unlock()
	return info.limiter.Allow()
}

// cleanup drops buckets idle for limiterIdle until ctx ends.
func (l *ipLimiter) cleanup(ctx context.Context) {
	t := time.NewTicker(limiterCleanup)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			l.sweep(now)
		}
	}
}

func (l *ipLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, info := range l.limiters {
		if now.Sub(info.lastAccessed) > limiterIdle {
			delete(l.limiters, ip)
		}
	}
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// clientIP is the peer address. Forwarding headers are ignored: they are set
// by the client unless a trusted proxy rewrites them.
func clientIP(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
