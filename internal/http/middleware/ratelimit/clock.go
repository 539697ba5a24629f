package ratelimit

import "time"

// Clock is the limiter's time source.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain func, such as time.Now, to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
