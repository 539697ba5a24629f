package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Config stores TokenBucketLimiter settings.
// Keys are client IPs; MaxBuckets bounds memory under address spraying.
type Config struct {
	Rate       float64       // tokens per second
	Burst      int           // bucket capacity
	TTL        time.Duration // idle buckets older than this are dropped (0 keeps them)
	MaxBuckets int           // 0 means unbounded
}

// TokenBucketLimiter keeps one token bucket per key.
type TokenBucketLimiter struct {
	cfg   Config
	clock Clock

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucketLimiter creates a limiter with an injected clock.
func NewTokenBucketLimiter(clock Clock, cfg Config) *TokenBucketLimiter {
	if clock == nil {
		clock = SystemClock
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucketLimiter{
		cfg:     cfg,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// Take consumes one token for key. A new key arriving while the table is full
// triggers a sweep of idle buckets; if nothing can be freed it is refused.
func (l *TokenBucketLimiter) Take(key string) (bool, time.Duration) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sweepDue(now) {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		if l.full() {
			l.sweep(now)
			if l.full() {
				return false, l.interval()
			}
		}
		b = &bucket{tokens: float64(l.cfg.Burst), last: now}
		l.buckets[key] = b
	}

	b.refill(now, l.cfg.Rate, float64(l.cfg.Burst))
	if b.tokens < 1 {
		deficit := 1 - b.tokens
		return false, time.Duration(math.Ceil(deficit / l.cfg.Rate * float64(time.Second)))
	}
	b.tokens--
	return true, 0
}

// Len reports the number of tracked keys.
func (l *TokenBucketLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (b *bucket) refill(now time.Time, rate, burst float64) {
	if dt := now.Sub(b.last); dt > 0 {
		b.tokens = math.Min(burst, b.tokens+dt.Seconds()*rate)
		b.last = now
	}
}

func (l *TokenBucketLimiter) full() bool {
	return l.cfg.MaxBuckets > 0 && len(l.buckets) >= l.cfg.MaxBuckets
}

// interval is the time one token takes to refill.
func (l *TokenBucketLimiter) interval() time.Duration {
	return time.Duration(float64(time.Second) / l.cfg.Rate)
}

func (l *TokenBucketLimiter) sweepDue(now time.Time) bool {
	if l.cfg.TTL <= 0 {
		return false
	}
	every := time.Minute
	if half := l.cfg.TTL / 2; half > every {
		every = half
	}
	return l.lastSweep.IsZero() || now.Sub(l.lastSweep) >= every
}

func (l *TokenBucketLimiter) sweep(now time.Time) {
	if l.cfg.TTL <= 0 {
		return
	}
	l.lastSweep = now
	for k, b := range l.buckets {
		if now.Sub(b.last) > l.cfg.TTL {
			delete(l.buckets, k)
		}
	}
}
