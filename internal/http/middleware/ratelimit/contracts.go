package ratelimit

import "time"

// Limiter decides whether the caller identified by key may proceed.
// When it may not, wait is how long until the next request would be admitted.
type Limiter interface {
	Take(key string) (ok bool, wait time.Duration)
}
