// Package db provides a standardized interface for key-value database implementations.
// It defines a KVDB interface that allows for consistent interaction with various
// database backends while abstracting implementation details.
//
// The package focuses on:
//   - A unified interface for key-value operations
//   - Feature discovery through capability flags
//   - A hard Delete contract (ErrKeyNotFound) that higher layers can rely on
//   - Standardized metadata reporting
//
// Key Components:
//
//   - KVDB Interface: The core interface that all database implementations must satisfy.
//     It provides methods for basic operations (Put, Get, Has, Delete), enumeration
//     (Len, IterateKeys) and metadata retrieval (GetInfo).
//
//   - Feature Flags: The Feature type defines capability flags that implementations
//     can advertise through the SupportsFeature method. This allows clients to
//     discover supported operations at runtime.
//
//   - Implementation Identifiers: The Implementation type provides string constants
//     for different database backends (currently "hazel" and "birch"). Backends are
//     selected by an explicit factory, never by a runtime name-to-type registry.
//
//   - ErrKeyNotFound: The sentinel error returned by Delete for absent keys. The
//     journaling layer treats this error as a signal of a double-delete in a
//     replayed history, so engines must never swallow it.
//
// Note on Iteration:
//
//	IterateKeys uses a range-callback, matching the iteration style of the
//	underlying concurrent map implementations. The callback sees a traversal
//	that is stable enough to enumerate every live key exactly once, but the
//	engines make no promises about mutation during traversal. Callers that
//	delete while iterating must collect the keys into a slice first.
//
// This interface-driven approach allows applications to:
//   - Swap database implementations without code changes
//   - Gracefully handle operations not supported by specific implementations
//   - Maintain consistent behavior across different storage backends
package db
