// Package persist stores the whole account collection as one serialized
// blob under a single named slot.
//
// # Format
//
// Saves always write the versioned envelope:
//
//	{"version": 1, "savedAt": "...", "accounts": [ {...}, ... ]}
//
// Loads also accept the unversioned shapes written before the envelope
// existed: a bare JSON array of records, and the persisted-state wrapper
// {"state": {"accounts": [...]}, "version": 0}. A payload without a version
// is read as version 0.
//
// Every record is checked against schema.cue before it is converted.
// Record fields this build does not know are kept in Account.Unknown and
// written back on the next save.
//
// # Backends
//
//   - SQLite: one row per slot, upserted in a transaction (WAL mode)
//   - File: one JSON file, replaced by rename
//   - Memory: bytes held in process, for tests and ephemeral runs
package persist
