package db

import "errors"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplHazel Implementation = "hazel" // in-memory map engine
	ImplBirch Implementation = "birch" // embedded on-disk hash table engine
)

// Feature represents database features as bit flags
type Feature uint64

const (
	FeaturePut     Feature = 1 << iota // Support for Put operations
	FeatureGet                         // Support for Get operations
	FeatureDelete                      // Support for Delete operations
	FeatureHas                         // Support for Has operations
	FeatureLen                         // Support for Len operations
	FeatureIterate                     // Support for IterateKeys operations
	FeaturePersist                     // Support for on-disk persistence (Sync)
)

func (f Feature) String() string {
	switch f {
	case FeaturePut:
		return "Put"
	case FeatureGet:
		return "Get"
	case FeatureDelete:
		return "Delete"
	case FeatureHas:
		return "Has"
	case FeatureLen:
		return "Len"
	case FeatureIterate:
		return "IterateKeys"
	case FeaturePersist:
		return "Persist"
	default:
		return "Unknown"
	}
}

type DatabaseInfo struct {
	Keys              int            `json:"keys"`
	DbType            Implementation `json:"db_type"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

// ErrKeyNotFound is returned by Delete when the key is absent. Every engine
// must return exactly this sentinel (possibly wrapped): the journaling layer
// relies on it to tell a removed key apart from one that was never there.
var ErrKeyNotFound = errors.New("key not found")

// --------------------------------------------------------------------------
// Database Interface
// --------------------------------------------------------------------------

// KVDB defines an interface for key-value database implementations.
// It provides methods for basic operations like Put, Get, Delete, and various
// utility functions. Any implementation of this interface must manage keys in
// a consistent way. Implementations can vary in their feature support, which
// can be queried with SupportsFeature.
//
// The journaling layer (lib/store/jstore) is the intended consumer of this
// interface; implementations are unaware of journaling.
type KVDB interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Put inserts or updates an entry with the given key and value.
	// If the key already exists, the old value is overwritten. Calling Put
	// repeatedly with the same key must be safe.
	Put(key, value string)

	// Delete removes an entry with the specified key.
	// Returns ErrKeyNotFound if the key is absent.
	Delete(key string) error

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key.
	// The boolean return value indicates whether a value for the key was found.
	Get(key string) (value string, loaded bool)

	// Has checks whether a key exists in the database.
	Has(key string) (loaded bool)

	// Len returns the number of live keys.
	Len() int

	// IterateKeys calls fn for every current key until fn returns false.
	// The iteration is finite and visits each live key at most once. Callers
	// that intend to mutate during traversal must materialize the keys first;
	// engines are not required to tolerate delete-while-iterating.
	IterateKeys(fn func(key string) bool)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the database implementation supports the
	// specified feature. Multiple features can be checked at once using the
	// bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the database.
	GetInfo() (info DatabaseInfo)

	// Close closes the database.
	Close() (err error)
}
