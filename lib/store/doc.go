// Package store provides a high-level interface for journaled key-value
// storage operations with unified error handling. It serves as an abstraction
// layer over the lower-level db.KVDB implementations, adding mutation
// journaling and journal-driven recovery.
//
// The package focuses on:
//   - A unified interface (IStore) for journaled key-value operations across
//     different backends
//   - Pluggable storage backend architecture through the DBFactory pattern
//   - A structured error system with typed return codes
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining operations for
//     interacting with a journaling key-value store. Mutating operations carry
//     an explicit journaling flag; recovery is exposed as RestoreFromJournal.
//     The interface methods return custom Error values that provide detailed
//     information about operation results.
//
//   - Error System: A structured error reporting mechanism using typed error
//     codes (RetCode) and descriptive messages. The taxonomy distinguishes
//     configuration failures, deletes of absent keys, missing journal files
//     and journal corruption, so applications can react to the specific
//     condition instead of a generic error. Use HasCode to test for a code
//     through wrapped error chains.
//
//   - DBFactory: A function type that abstracts the creation of underlying
//     db.KVDB instances, providing dependency injection and flexible
//     configuration of storage backends.
//
// Implementations:
//
//	The jstore package ("github.com/jkvdb/jKV/lib/store/jstore") provides the
//	implementation of IStore: it binds one db.KVDB and one journal.Journal
//	1:1 for their lifetime, applies every mutation to the backend first and
//	appends the matching redo record afterwards, and rebuilds the backend
//	from the journal on demand.
package store
