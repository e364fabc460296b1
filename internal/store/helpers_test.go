package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/purse/internal/account"
	"github.com/roach88/purse/internal/persist"
	"github.com/roach88/purse/internal/testutil"
)

// newTestStore creates a store over a fresh in-memory adapter with a
// deterministic clock and id sequence.
func newTestStore(t *testing.T, opts ...Option) (*Store, *persist.Memory) {
	t.Helper()
	mem := persist.NewMemory()
	base := []Option{
		WithClock(testutil.NewDeterministicClock()),
		WithIDGenerator(testutil.NewSequenceGenerator()),
	}
	return New(mem, append(base, opts...)...), mem
}

// hydrated is newTestStore followed by a successful Hydrate.
func hydrated(t *testing.T, opts ...Option) (*Store, *persist.Memory) {
	t.Helper()
	s, mem := newTestStore(t, opts...)
	require.NoError(t, s.Hydrate(context.Background()))
	return s, mem
}

func mustAccounts(t *testing.T, s *Store) []account.Account {
	t.Helper()
	accounts, err := s.Accounts()
	require.NoError(t, err)
	return accounts
}

func idsOf(accounts []account.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// recorder captures Recorder calls.
type recorder struct {
	mu       sync.Mutex
	ops      []string
	errs     []error
	accounts []int
}

func (r *recorder) ObserveMutation(op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
	r.errs = append(r.errs, err)
}

func (r *recorder) ObserveAccounts(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = append(r.accounts, n)
}

// blockingAdapter blocks its first save until the context is done.
type blockingAdapter struct {
	*persist.Memory
	mu      sync.Mutex
	blocked bool
}

func (b *blockingAdapter) Save(ctx context.Context, accounts []account.Account) error {
	b.mu.Lock()
	first := !b.blocked
	b.blocked = true
	b.mu.Unlock()

	if first {
		<-ctx.Done()
		return &persist.StorageError{Op: "save", Key: "blocking", Err: ctx.Err()}
	}
	return b.Memory.Save(ctx, accounts)
}
