// Package journal implements an append-only, compressed redo log of key-value
// mutations. It is the durability core behind lib/store/jstore: every
// journaled put or delete becomes one record line, and replaying the lines in
// file order against an empty store reconstructs the store's logical state.
//
// The package focuses on:
//   - A self-describing line format: each decompressed line is a JSON array
//     of strings, tag first ("+" for put, "-" for delete)
//   - A strict single-stream rule: at most one open file handle per Journal,
//     enforced by closing the previous stream on every mode switch
//   - Per-record flushing so that records fully written before process exit
//     are replayable
//
// Key Components:
//
//   - Journal: The log bound to one file path for its whole lifetime. It moves
//     through the modes Closed, OpenForAppend, OpenForRead and OpenForTruncate;
//     records can only be appended in append mode and only be read in read
//     mode. Truncation exists solely for Clear and is never part of recovery.
//
//   - Record: The tagged variant describing one mutation. Encoding and decoding
//     live in record.go; an unrecognized line aborts reading with a
//     CorruptionError carrying the 1-based line number.
//
//   - Compression: Streams are gzip-compressed (klauspost/compress). Each
//     append session forms its own gzip member; the reader decodes the
//     concatenated members transparently, so logical line boundaries survive
//     compression unchanged.
//
// What this package is not: a transactional WAL. There are no checksums and
// no fsync barriers; the guarantee is limited to "log entries fully written
// before process exit are replayable".
package journal
