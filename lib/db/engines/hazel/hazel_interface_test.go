package hazel

import (
	"testing"

	"github.com/jkvdb/jKV/lib/db"
	dbtesting "github.com/jkvdb/jKV/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "HazelDB", func() (db.KVDB, error) {
		return NewHazelDB(), nil
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "HazelDB", func() (db.KVDB, error) {
		return NewHazelDB(), nil
	})
}
