package store

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces candidate account ids. The store rejects candidates
// that collide with an existing id and asks again.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates "acc-" prefixed UUIDv7 ids.
//
// UUIDv7 embeds a millisecond timestamp followed by random bits, so ids
// created in the same millisecond still differ.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate panics if UUID generation fails (should never happen in practice).
func (UUIDGenerator) Generate() string {
	return "acc-" + uuid.Must(uuid.NewV7()).String()
}

// Clock supplies creation timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
