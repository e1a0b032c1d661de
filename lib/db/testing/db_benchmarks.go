package testing

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jkvdb/jKV/lib/db"
)

// RunKVDBBenchmarks runs all benchmarks for a key-value database implementation
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Put", func(b *testing.B) {
			benchmarkPut(b, mustDB(b, factory))
		})

		b.Run("PutExisting", func(b *testing.B) {
			benchmarkPutExisting(b, mustDB(b, factory))
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, mustDB(b, factory))
		})

		b.Run("Delete", func(b *testing.B) {
			benchmarkDelete(b, mustDB(b, factory))
		})

		b.Run("Has", func(b *testing.B) {
			benchmarkHas(b, mustDB(b, factory))
		})

		b.Run("Has(not)", func(b *testing.B) {
			benchmarkHasNot(b, mustDB(b, factory))
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, mustDB(b, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Put operation
func benchmarkPut(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			database.Put(fmt.Sprintf("bench-key-%d", i), "bench-value")
		}
	})
}

// Benchmark for Put on an existing key
func benchmarkPutExisting(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut)

	database.Put("bench-key", "initial")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			database.Put("bench-key", "bench-value")
		}
	})
}

// Benchmark for Get operation
func benchmarkGet(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeatureGet)

	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		database.Put(fmt.Sprintf("bench-key-%d", i), fmt.Sprintf("bench-value-%d", i))
	}

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			database.Get(fmt.Sprintf("bench-key-%d", int(i)%numKeys))
		}
	})
}

// Benchmark for Delete operation
func benchmarkDelete(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeatureDelete)

	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			// Setup excluded from timing as far as possible: the put dominates,
			// but relative numbers between engines stay comparable.
			key := fmt.Sprintf("bench-key-%d", counter)
			database.Put(key, "bench-value")
			_ = database.Delete(key)
			counter++
		}
	})
}

// Benchmark for Has on existing keys
func benchmarkHas(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeatureHas)

	numKeys := 10000
	for i := 0; i < numKeys; i++ {
		database.Put(fmt.Sprintf("bench-key-%d", i), "bench-value")
	}

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			database.Has(fmt.Sprintf("bench-key-%d", int(i)%numKeys))
		}
	})
}

// Benchmark for Has on missing keys
func benchmarkHasNot(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeatureHas)

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			database.Has(fmt.Sprintf("missing-key-%d", i))
		}
	})
}

// Benchmark for a mixed read/write workload
func benchmarkMixedUsage(b *testing.B, database db.KVDB) {
	b.Cleanup(func() {
		database.Close()
	})

	requireFeature(b, database, db.FeaturePut|db.FeatureGet|db.FeatureDelete|db.FeatureHas)

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		database.Put(fmt.Sprintf("bench-key-%d", i), "bench-value")
	}

	var counter atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := int(counter.Add(1))
			key := fmt.Sprintf("bench-key-%d", i%numKeys)
			switch i % 10 {
			case 0:
				database.Put(key, "bench-value-updated")
			case 1:
				_ = database.Delete(key)
				database.Put(key, "bench-value")
			case 2:
				database.Has(key)
			default:
				database.Get(key)
			}
		}
	})
}
