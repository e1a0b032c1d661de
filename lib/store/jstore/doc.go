// Package jstore implements the journaling key-value store based on the
// store.IStore interface. It composes one db.KVDB backend with one
// journal.Journal, bound 1:1 for their entire lifetime: every mutation is
// applied to the backend and, unless suppressed via the journaling flag,
// appended to the journal as a redo record. Replaying the journal from empty
// reproduces the backend's logical state.
//
// Key Features:
//   - Works with any db.KVDB backend through the store.DBFactory pattern;
//     backends stay unaware of journaling
//   - Store-before-log ordering: a failed store mutation never produces a log
//     entry describing an action that never happened
//   - Journal-driven recovery via RestoreFromJournal
//   - Configuration resolved once, at construction: the journal path defaults
//     to the store filename plus ".journal.gz" and at least one identity is
//     mandatory
//
// Implementation Details:
//
//   - Journaling Flag: Put, Delete and Clear take an explicit journaling
//     argument. Normal operation passes true; recovery replays with false so
//     the log never re-absorbs its own history (repeated restores would
//     otherwise grow the log without bound).
//
//   - Clear Semantics: Clear materializes the key list before deleting, so
//     backend iterators are never asked to survive concurrent deletion. Each
//     deletion is routed through the store's own Delete and is therefore
//     itself optionally journaled.
//
//   - Accepted Divergence: If a journal append fails after the backend
//     mutation succeeded, the backend is ahead of the log. The store surfaces
//     the error but does not roll back; the log is never ahead of the store.
//
// Concurrency:
//
//	The store is single-owner. Operations are synchronous and run to
//	completion; no internal locking is provided. Callers needing multi-actor
//	access must serialize externally, for example with one exclusive owner
//	per process.
package jstore
