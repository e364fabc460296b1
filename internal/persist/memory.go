package persist

import (
	"context"
	"sync"
	"time"

	"github.com/roach88/purse/internal/account"
)

// Memory keeps the encoded collection in process. Data still goes through
// Encode/Decode so it behaves like the durable backends.
type Memory struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemory returns an empty slot; Load reports ErrNotFound until Save.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns a slot preloaded with a raw payload.
func NewMemoryWith(payload []byte) *Memory {
	return &Memory{data: append([]byte(nil), payload...)}
}

func (m *Memory) Load(ctx context.Context) ([]account.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StorageError{Op: "load", Key: "memory", Err: err}
	}
	m.mu.Lock()
	data := m.data
	m.mu.Unlock()

	if data == nil {
		return nil, ErrNotFound
	}
	return Decode(data)
}

func (m *Memory) Save(ctx context.Context, accounts []account.Account) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Op: "save", Key: "memory", Err: err}
	}
	payload, err := Encode(accounts, time.Now())
	if err != nil {
		return &StorageError{Op: "encode", Key: "memory", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = payload
	m.saves++
	return nil
}

// Bytes returns a copy of the stored payload, or nil if never saved.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil
	}
	return append([]byte(nil), m.data...)
}

// Saves returns how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
