// Package birch implements an embedded, file-backed hash table database (KVDB).
// It provides a complete implementation of the db.KVDB interface: entries live
// in a concurrent hash map and are persisted to a single binary data file.
//
// The package focuses on:
//   - Embedded operation: no server process, the data file is owned by the
//     opening process
//   - A compact binary file format with a magic number and format version
//   - Crash-conscious persistence: Sync writes to a temporary file and renames
//     it into place, so the previous data file is never left half-written
//
// Key Components:
//
//   - birchImpl: The central database structure implementing db.KVDB. Reads and
//     writes operate on an xsync.MapOf[string, string]; a dirty flag tracks
//     whether the in-memory state has diverged from the data file.
//
//   - File Format: The data file starts with the magic number "BIRCHDB\x00"
//     and a version byte, followed by the entry count and length-prefixed
//     key/value pairs, all little-endian. The whole file is rewritten on Sync;
//     birch does not do incremental updates. For delta durability between
//     syncs, put a journal in front of the store (see lib/store/jstore).
//
// Lifecycle:
//
//	NewBirchDB loads the data file if present. Mutations are in-memory only
//	until Sync or Close writes them back. Close always syncs before releasing
//	the map.
package birch
