package testing

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/jkvdb/jKV/lib/db"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() (db.KVDB, error)

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, mustDB(t, factory))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, mustDB(t, factory))
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, mustDB(t, factory))
		})

		t.Run("Len", func(t *testing.T) {
			testLen(t, mustDB(t, factory))
		})

		t.Run("IterateKeys", func(t *testing.T) {
			testIterateKeys(t, mustDB(t, factory))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, mustDB(t, factory))
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, mustDB(t, factory))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// mustDB creates a database or fails the test
func mustDB(t testing.TB, factory DBFactory) db.KVDB {
	database, err := factory()
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	return database
}

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureGet)

	testKey := "test-key"
	testValue1 := "test-value1"
	testValue2 := "test-value2"

	database.Put(testKey, testValue1)

	result, exists := database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Put", testKey)
	}

	if result != testValue1 {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	database.Put(testKey, testValue2)

	result, exists = database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Put", testKey)
	}

	if result != testValue2 {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	_, exists = database.Get("nonexistent-key")
	if exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeatureDelete)

	testKey := "delete-test-key"
	testValue := "delete-test-value"

	database.Put(testKey, testValue)

	if _, exists := database.Get(testKey); !exists {
		t.Errorf("Expected key %s to exist after Put", testKey)
	}

	if err := database.Delete(testKey); err != nil {
		t.Errorf("Delete of existing key returned error: %v", err)
	}

	if _, exists := database.Get(testKey); exists {
		t.Errorf("Expected key %s to not exist after Delete", testKey)
	}

	// The hard contract: deleting an absent key must return ErrKeyNotFound.
	if err := database.Delete(testKey); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound for deleted key, got %v", err)
	}

	if err := database.Delete("nonexistent-key"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound for nonexistent key, got %v", err)
	}
}

func testHas(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureHas)
	requireFeature(t, database, db.FeatureDelete)

	testKey := "has-test-key"

	if database.Has(testKey) {
		t.Errorf("Expected Has to return false before Put")
	}

	database.Put(testKey, "has-test-value")

	if !database.Has(testKey) {
		t.Errorf("Expected Has to return true after Put")
	}

	if err := database.Delete(testKey); err != nil {
		t.Errorf("Delete returned error: %v", err)
	}

	if database.Has(testKey) {
		t.Errorf("Expected Has to return false after Delete")
	}
}

func testLen(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureLen)
	requireFeature(t, database, db.FeatureDelete)

	if n := database.Len(); n != 0 {
		t.Errorf("Expected empty database, got %d keys", n)
	}

	numKeys := 100
	for i := 0; i < numKeys; i++ {
		database.Put(fmt.Sprintf("len-key-%d", i), fmt.Sprintf("len-value-%d", i))
	}

	if n := database.Len(); n != numKeys {
		t.Errorf("Expected %d keys, got %d", numKeys, n)
	}

	// Overwriting must not change the count
	database.Put("len-key-0", "overwritten")
	if n := database.Len(); n != numKeys {
		t.Errorf("Expected %d keys after overwrite, got %d", numKeys, n)
	}

	for i := 0; i < numKeys/2; i++ {
		if err := database.Delete(fmt.Sprintf("len-key-%d", i)); err != nil {
			t.Errorf("Delete returned error: %v", err)
		}
	}

	if n := database.Len(); n != numKeys/2 {
		t.Errorf("Expected %d keys after deletes, got %d", numKeys/2, n)
	}
}

func testIterateKeys(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureIterate)

	want := []string{"iter-a", "iter-b", "iter-c", "iter-d"}
	for _, key := range want {
		database.Put(key, "v")
	}

	var got []string
	database.IterateKeys(func(key string) bool {
		got = append(got, key)
		return true
	})

	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("Expected %d keys, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected key %s at position %d, got %s", want[i], i, got[i])
		}
	}

	// Early termination
	seen := 0
	database.IterateKeys(func(string) bool {
		seen++
		return seen < 2
	})
	if seen != 2 {
		t.Errorf("Expected iteration to stop after 2 keys, saw %d", seen)
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureGet)

	// Empty key and empty value are both legal
	database.Put("", "empty-key-value")
	if result, exists := database.Get(""); !exists || result != "empty-key-value" {
		t.Errorf("Expected empty key to round-trip, got %q exists=%v", result, exists)
	}

	database.Put("empty-value-key", "")
	if result, exists := database.Get("empty-value-key"); !exists || result != "" {
		t.Errorf("Expected empty value to round-trip, got %q exists=%v", result, exists)
	}

	// Keys with separators, unicode and control characters
	awkwardKeys := []string{
		"key with spaces",
		"key\nwith\nnewlines",
		`key"with"quotes`,
		"schlüssel-ümlaut",
		"键值",
	}
	for _, key := range awkwardKeys {
		database.Put(key, "value-of-"+key)
		if result, exists := database.Get(key); !exists || result != "value-of-"+key {
			t.Errorf("Key %q did not round-trip, got %q exists=%v", key, result, exists)
		}
	}
}

func testRealisticUsage(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeaturePut)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeatureDelete)
	requireFeature(t, database, db.FeatureLen)

	// Interleave writes, overwrites and deletes and verify the final state
	live := make(map[string]string)
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("user:%d", i%250)
		value := fmt.Sprintf("payload-%d", i)
		database.Put(key, value)
		live[key] = value

		if i%7 == 0 {
			victim := fmt.Sprintf("user:%d", (i*3)%250)
			if _, ok := live[victim]; ok {
				if err := database.Delete(victim); err != nil {
					t.Errorf("Delete of %s returned error: %v", victim, err)
				}
				delete(live, victim)
			}
		}
	}

	if n := database.Len(); n != len(live) {
		t.Errorf("Expected %d live keys, got %d", len(live), n)
	}

	for key, want := range live {
		got, exists := database.Get(key)
		if !exists {
			t.Errorf("Expected key %s to exist", key)
			continue
		}
		if got != want {
			t.Errorf("Key %s: expected %s, got %s", key, want, got)
		}
	}
}
