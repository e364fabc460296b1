package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"

	"github.com/roach88/purse/internal/account"
	"github.com/roach88/purse/internal/persist"
	"github.com/roach88/purse/internal/view"
)

// Operation names reported to subscribers and recorders.
const (
	OpHydrate = "hydrate"
	OpAdd     = "add"
	OpEdit    = "edit"
	OpDelete  = "delete"
)

// maxIDAttempts bounds how often a colliding id is regenerated.
const maxIDAttempts = 8

// reconcileTimeout bounds the re-save after a failed save.
const reconcileTimeout = 5 * time.Second

// State is the store lifecycle state.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Change describes a committed change to the collection.
type Change struct {
	Op       string
	ID       string // empty for hydrate
	Accounts []account.Account
}

// Store owns the account collection.
type Store struct {
	adapter     persist.Adapter
	clock       Clock
	ids         IDGenerator
	recorder    Recorder
	saveTimeout time.Duration
	locale      language.Tag

	// mu serializes Hydrate and mutations, including their saves.
	mu sync.Mutex

	// committed is nil until Hydrate succeeds. The slice it points to is
	// never modified.
	committed atomic.Pointer[[]account.Account]

	viewMu     sync.RWMutex
	sortBy     view.SortKey
	filterType view.FilterKey

	subsMu  sync.Mutex
	subs    map[uint64]func(Change)
	nextSub uint64
}

// New creates an Uninitialized store over adapter.
func New(adapter persist.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter:    adapter,
		clock:      SystemClock{},
		ids:        UUIDGenerator{},
		recorder:   nopRecorder{},
		locale:     language.Russian,
		sortBy:     view.DefaultSort,
		filterType: view.DefaultFilter,
		subs:       make(map[uint64]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports whether Hydrate has completed.
func (s *Store) State() State {
	if s.committed.Load() == nil {
		return Uninitialized
	}
	return Ready
}

// Hydrate loads the collection, seeding DefaultAccounts when nothing has
// been saved. The seed is not written; the first mutation persists it.
// Calling Hydrate on a Ready store does nothing.
func (s *Store) Hydrate(ctx context.Context) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.committed.Load() != nil {
		return nil
	}

	accounts, err := s.adapter.Load(ctx)
	switch {
	case errors.Is(err, persist.ErrNotFound):
		accounts = DefaultAccounts(s.now())
		slog.Info("no saved accounts, seeding defaults", "count", len(accounts))
	case err != nil:
		err = fmt.Errorf("hydrate: %w", err)
		s.recorder.ObserveMutation(OpHydrate, time.Since(start), err)
		return err
	default:
		if err := checkUnique(accounts); err != nil {
			err = fmt.Errorf("hydrate: %w", err)
			s.recorder.ObserveMutation(OpHydrate, time.Since(start), err)
			return err
		}
		slog.Info("accounts loaded", "count", len(accounts))
	}

	s.commit(Change{Op: OpHydrate}, accounts)
	s.recorder.ObserveMutation(OpHydrate, time.Since(start), nil)
	return nil
}

// Add validates the draft, assigns id and createdAt, and appends it.
func (s *Store) Add(ctx context.Context, d account.Draft) (account.Account, error) {
	start := time.Now()
	a, err := s.add(ctx, d)
	s.recorder.ObserveMutation(OpAdd, time.Since(start), err)
	return a, err
}

func (s *Store) add(ctx context.Context, d account.Draft) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.current()
	if err != nil {
		return account.Account{}, err
	}
	if err := d.Validate(); err != nil {
		return account.Account{}, fmt.Errorf("add account: %w", err)
	}

	id, err := s.newID(prev)
	if err != nil {
		return account.Account{}, fmt.Errorf("add account: %w", err)
	}
	a := d.Build(id, s.now())
	if err := account.Validate(a); err != nil {
		return account.Account{}, fmt.Errorf("add account: %w", err)
	}

	next := make([]account.Account, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, a)

	if err := s.save(ctx, prev, next); err != nil {
		return account.Account{}, fmt.Errorf("add account: %w", err)
	}
	s.commit(Change{Op: OpAdd, ID: a.ID}, next)
	slog.Info("account added", "id", a.ID, "type", a.Type)
	return a.Clone(), nil
}

// Edit merges the present fields of p into the account with the given id.
// Id, type and createdAt never change. On any error the stored account is
// left as it was.
func (s *Store) Edit(ctx context.Context, id string, p account.Patch) (account.Account, error) {
	start := time.Now()
	a, err := s.edit(ctx, id, p)
	s.recorder.ObserveMutation(OpEdit, time.Since(start), err)
	return a, err
}

func (s *Store) edit(ctx context.Context, id string, p account.Patch) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.current()
	if err != nil {
		return account.Account{}, err
	}
	idx := indexOf(prev, id)
	if idx < 0 {
		return account.Account{}, fmt.Errorf("edit account: %w", &NotFoundError{ID: id})
	}

	updated := p.Apply(prev[idx])
	if err := account.Validate(updated); err != nil {
		return account.Account{}, fmt.Errorf("edit account %q: %w", id, err)
	}
	if updated.Equal(prev[idx]) {
		slog.Debug("edit changed nothing, skipping save", "id", id)
		return updated, nil
	}

	next := slices.Clone(prev)
	next[idx] = updated

	if err := s.save(ctx, prev, next); err != nil {
		return account.Account{}, fmt.Errorf("edit account %q: %w", id, err)
	}
	s.commit(Change{Op: OpEdit, ID: id}, next)
	slog.Info("account edited", "id", id)
	return updated.Clone(), nil
}

// Delete removes the account with the given id. Deleting an unknown id
// succeeds without writing.
func (s *Store) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.delete(ctx, id)
	s.recorder.ObserveMutation(OpDelete, time.Since(start), err)
	return err
}

func (s *Store) delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.current()
	if err != nil {
		return err
	}
	idx := indexOf(prev, id)
	if idx < 0 {
		slog.Debug("delete of unknown account ignored", "id", id)
		return nil
	}

	next := slices.Delete(slices.Clone(prev), idx, idx+1)

	if err := s.save(ctx, prev, next); err != nil {
		return fmt.Errorf("delete account %q: %w", id, err)
	}
	s.commit(Change{Op: OpDelete, ID: id}, next)
	slog.Info("account deleted", "id", id)
	return nil
}

// Accounts returns a copy of the committed collection in storage order.
func (s *Store) Accounts() ([]account.Account, error) {
	cur, err := s.current()
	if err != nil {
		return nil, err
	}
	return account.CloneAll(cur), nil
}

// Get returns one account by id.
func (s *Store) Get(id string) (account.Account, error) {
	cur, err := s.current()
	if err != nil {
		return account.Account{}, err
	}
	idx := indexOf(cur, id)
	if idx < 0 {
		return account.Account{}, &NotFoundError{ID: id}
	}
	return cur[idx].Clone(), nil
}

// Display returns the committed collection filtered and sorted by the
// current view settings.
func (s *Store) Display() ([]account.Account, error) {
	cur, err := s.current()
	if err != nil {
		return nil, err
	}
	s.viewMu.RLock()
	sortBy, filterType := s.sortBy, s.filterType
	s.viewMu.RUnlock()

	return account.CloneAll(view.Display(cur, filterType, sortBy, s.locale)), nil
}

// SetSort changes the session sort order. It does not touch the collection.
func (s *Store) SetSort(key view.SortKey) error {
	if _, err := s.current(); err != nil {
		return err
	}
	parsed, err := view.ParseSortKey(string(key))
	if err != nil {
		return err
	}
	s.viewMu.Lock()
	s.sortBy = parsed
	s.viewMu.Unlock()
	return nil
}

// SetFilter changes the session filter. It does not touch the collection.
func (s *Store) SetFilter(key view.FilterKey) error {
	if _, err := s.current(); err != nil {
		return err
	}
	parsed, err := view.ParseFilterKey(string(key))
	if err != nil {
		return err
	}
	s.viewMu.Lock()
	s.filterType = parsed
	s.viewMu.Unlock()
	return nil
}

// SortBy returns the session sort order.
func (s *Store) SortBy() view.SortKey {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.sortBy
}

// FilterType returns the session filter.
func (s *Store) FilterType() view.FilterKey {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.filterType
}

// Subscribe registers fn to be called after every committed change,
// including Hydrate. fn runs while the mutation lock is held and must not
// call Add, Edit, Delete or Hydrate. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// current returns the committed collection or ErrNotReady.
func (s *Store) current() ([]account.Account, error) {
	p := s.committed.Load()
	if p == nil {
		return nil, ErrNotReady
	}
	return *p, nil
}

// save writes next. On failure it re-saves prev so the blob matches the
// collection that stays committed. Caller holds s.mu.
func (s *Store) save(ctx context.Context, prev, next []account.Account) error {
	saveCtx := ctx
	if s.saveTimeout > 0 {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(ctx, s.saveTimeout)
		defer cancel()
	}

	err := s.adapter.Save(saveCtx, next)
	if err == nil {
		return nil
	}
	slog.Error("save failed, mutation not applied", "error", err)

	restoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconcileTimeout)
	defer cancel()
	if rerr := s.adapter.Save(restoreCtx, prev); rerr != nil {
		slog.Warn("could not restore last committed accounts; next save overwrites them", "error", rerr)
	}
	return err
}

// commit publishes next and notifies subscribers. Caller holds s.mu.
func (s *Store) commit(c Change, next []account.Account) {
	s.committed.Store(&next)
	s.recorder.ObserveAccounts(len(next))

	s.subsMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		c.Accounts = account.CloneAll(next)
		fn(c)
	}
}

// newID asks the generator for an id not present in accounts.
func (s *Store) newID(accounts []account.Account) (string, error) {
	for range maxIDAttempts {
		id := s.ids.Generate()
		if id != "" && indexOf(accounts, id) < 0 {
			return id, nil
		}
		slog.Warn("generated account id collides, retrying", "id", id)
	}
	return "", fmt.Errorf("no unique id after %d attempts", maxIDAttempts)
}

// now is the creation timestamp: UTC, millisecond precision.
func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Millisecond)
}

func indexOf(accounts []account.Account, id string) int {
	return slices.IndexFunc(accounts, func(a account.Account) bool { return a.ID == id })
}

func checkUnique(accounts []account.Account) error {
	seen := make(map[string]bool, len(accounts))
	for i, a := range accounts {
		if seen[a.ID] {
			return &persist.SchemaError{Index: i, Message: fmt.Sprintf("duplicate id %q", a.ID)}
		}
		seen[a.ID] = true
	}
	return nil
}
