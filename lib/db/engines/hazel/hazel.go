package hazel

import (
	"github.com/jkvdb/jKV/lib/db"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Core Hazel database structure
// --------------------------------------------------------------------------

// hazelImpl implements an in-memory database backed by a concurrent map
type hazelImpl struct {
	data *xsync.MapOf[string, string]
}

// NewHazelDB creates a new in-memory HazelDB instance.
//
// Thread-safety: This function is not thread-safe and should only be called
// once during initialization.
func NewHazelDB() db.KVDB {
	return &hazelImpl{
		data: xsync.NewMapOf[string, string](),
	}
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Put inserts or updates an entry with the given key and value.
// If the key already exists, the old value is overwritten.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (hazel *hazelImpl) Put(key, value string) {
	hazel.data.Store(key, value)
}

// Delete removes an entry with the specified key.
// Returns db.ErrKeyNotFound if the key is absent.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (hazel *hazelImpl) Delete(key string) error {
	if _, loaded := hazel.data.LoadAndDelete(key); !loaded {
		return db.ErrKeyNotFound
	}
	return nil
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Query Operations
// --------------------------------------------------------------------------

// Get retrieves the value for an exact key.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (hazel *hazelImpl) Get(key string) (string, bool) {
	return hazel.data.Load(key)
}

// Has checks whether a key exists in the database.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (hazel *hazelImpl) Has(key string) bool {
	_, loaded := hazel.data.Load(key)
	return loaded
}

// Len returns the number of live keys.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (hazel *hazelImpl) Len() int {
	return hazel.data.Size()
}

// IterateKeys calls fn for every current key until fn returns false.
//
// Thread-safety: This method is thread-safe; the traversal reflects a weakly
// consistent snapshot of the map.
func (hazel *hazelImpl) IterateKeys(fn func(key string) bool) {
	hazel.data.Range(func(key string, _ string) bool {
		return fn(key)
	})
}

// --------------------------------------------------------------------------
// Feature Support and Lifecycle
// --------------------------------------------------------------------------

const hazelFeatures = db.FeaturePut | db.FeatureGet | db.FeatureDelete |
	db.FeatureHas | db.FeatureLen | db.FeatureIterate

// SupportsFeature checks if the database implementation supports the specified feature.
func (hazel *hazelImpl) SupportsFeature(feature db.Feature) bool {
	return hazelFeatures&feature == feature
}

// GetInfo returns information about the database.
func (hazel *hazelImpl) GetInfo() db.DatabaseInfo {
	return db.DatabaseInfo{
		Keys:   hazel.data.Size(),
		DbType: db.ImplHazel,
		SupportedFeatures: []db.Feature{
			db.FeaturePut, db.FeatureGet, db.FeatureDelete,
			db.FeatureHas, db.FeatureLen, db.FeatureIterate,
		},
	}
}

// Close closes the database. For the in-memory engine this only drops the data.
func (hazel *hazelImpl) Close() error {
	hazel.data.Clear()
	return nil
}
