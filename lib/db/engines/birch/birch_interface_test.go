package birch

import (
	"path/filepath"
	"testing"

	"github.com/jkvdb/jKV/lib/db"
	dbtesting "github.com/jkvdb/jKV/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "BirchDB", func() (db.KVDB, error) {
		return NewBirchDB(filepath.Join(t.TempDir(), "test.birch"))
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "BirchDB", func() (db.KVDB, error) {
		return NewBirchDB(filepath.Join(b.TempDir(), "bench.birch"))
	})
}
