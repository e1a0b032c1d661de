// Package hazel implements a purely in-memory key-value database (KVDB). It
// provides a complete implementation of the db.KVDB interface on top of a
// concurrent hash map, with no persistence of any kind.
//
// The package focuses on:
//   - Minimal overhead: operations map one-to-one onto the underlying
//     xsync.MapOf primitives
//   - Thread safety without explicit locking
//   - Serving as the reference backend for tests of the journaling layer
//
// Key Components:
//
//   - hazelImpl: The central database structure implementing db.KVDB. All state
//     lives in a single xsync.MapOf[string, string]; Len delegates to the map's
//     own size tracking and IterateKeys to its Range traversal.
//
// Suitable Use Cases:
//
//	Hazel is ideal for tests, ephemeral caches, and as the store behind a
//	journal when the journal itself is the only durable artifact (the store
//	is rebuilt from the journal on startup). For a backend whose data file
//	survives restarts on its own, use the birch engine instead.
package hazel
