// Package testing provides standardised tests and benchmarks for
// database implementations that satisfy the db.KVDB interface.
//
// The package contains:
//   - testing: A test suite for validating conformance to the KVDB interface
//     contract, including the Delete/ErrKeyNotFound contract the journaling
//     layer depends on
//   - benchmark: Performance tests for measuring throughput of common database
//     operations
//
// This package is particularly useful for:
//   - Database developers implementing the KVDB interface
//   - Applications selecting a backend based on performance characteristics
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() (db.KVDB, error) {
//		return NewMyDatabase(), nil
//	}
//
//	// Running the standard test suite
//	dbtesting.RunKVDBTests(t, "MyDatabase", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunKVDBBenchmarks(b, "MyDatabase", factory)
package testing
