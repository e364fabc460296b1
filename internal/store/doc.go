// Package store is the single source of truth for the account collection.
//
// A Store starts Uninitialized. Hydrate loads the collection from a
// persist.Adapter (seeding two starter accounts on first run) and moves it
// to Ready; every other operation fails with ErrNotReady until then.
//
// # Mutations
//
// Add, Edit and Delete are serialized by one mutex held across the save.
// A mutation builds a new collection, saves it, and only then swaps it in.
// If the save fails the committed collection is unchanged and the error is
// returned; the store then re-saves the last committed collection so the
// persisted blob does not stay ahead of memory.
//
// # Reads
//
// The committed collection is held behind an atomic pointer and never
// modified in place. Readers do not block on an in-flight save and never
// see a half-applied mutation.
//
// Sort and filter settings are session state: they reset to name/all for
// every new Store and are not persisted.
package store
