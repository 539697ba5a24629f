package delivery

import (
	"time"

	"github.com/google/uuid"
)

type defaultFactory struct{}

// NewFactory returns a Factory backed by random UUIDs and the UTC wall clock.
func NewFactory() Factory {
	return defaultFactory{}
}

// NewID returns a random UUID string.
func (defaultFactory) NewID() string { return uuid.NewString() }

// Now returns the current UTC time.
func (defaultFactory) Now() time.Time { return time.Now().UTC() }
