package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/purse/internal/account"
	"github.com/roach88/purse/internal/persist"
)

// ErrInjected is the cause of failures injected by FailingAdapter.
var ErrInjected = errors.New("injected storage failure")

// FailingAdapter wraps an adapter and fails a chosen number of saves or
// loads with a persist.StorageError.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FailingAdapter struct {
	persist.Adapter

	mu          sync.Mutex
	failSaves   int
	failLoads   int
	saveCalls   int
	failedSaves int
}

// NewFailingAdapter wraps inner. Nothing fails until FailSaves or FailLoads.
func NewFailingAdapter(inner persist.Adapter) *FailingAdapter {
	return &FailingAdapter{Adapter: inner}
}

// FailSaves makes the next n saves fail.
func (f *FailingAdapter) FailSaves(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSaves = n
}

// FailLoads makes the next n loads fail.
func (f *FailingAdapter) FailLoads(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failLoads = n
}

func (f *FailingAdapter) Load(ctx context.Context) ([]account.Account, error) {
	f.mu.Lock()
	fail := f.failLoads > 0
	if fail {
		f.failLoads--
	}
	f.mu.Unlock()

	if fail {
		return nil, &persist.StorageError{Op: "load", Key: "test", Err: ErrInjected}
	}
	return f.Adapter.Load(ctx)
}

func (f *FailingAdapter) Save(ctx context.Context, accounts []account.Account) error {
	f.mu.Lock()
	f.saveCalls++
	fail := f.failSaves > 0
	if fail {
		f.failSaves--
		f.failedSaves++
	}
	f.mu.Unlock()

	if fail {
		return &persist.StorageError{Op: "save", Key: "test", Err: ErrInjected}
	}
	return f.Adapter.Save(ctx, accounts)
}

// SaveCalls returns how many saves were attempted.
func (f *FailingAdapter) SaveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveCalls
}

// FailedSaves returns how many saves were failed on purpose.
func (f *FailingAdapter) FailedSaves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failedSaves
}
