package store

import (
	"time"

	"golang.org/x/text/language"
)

// Recorder observes store activity. internal/metrics provides one.
type Recorder interface {
	// ObserveMutation is called once per Hydrate/Add/Edit/Delete call.
	ObserveMutation(op string, elapsed time.Duration, err error)

	// ObserveAccounts reports the committed collection size.
	ObserveAccounts(count int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveMutation(string, time.Duration, error) {}
func (nopRecorder) ObserveAccounts(int)                          {}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for createdAt (for testing).
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator overrides the id generator (for testing).
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithSaveTimeout bounds each save. Zero means no timeout.
// A timed-out save fails the mutation like any other storage error.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Store) { s.saveTimeout = d }
}

// WithLocale sets the collation used when sorting by name.
func WithLocale(tag language.Tag) Option {
	return func(s *Store) { s.locale = tag }
}
