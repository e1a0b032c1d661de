package birch

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/jkvdb/jKV/lib/db"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for the on-disk file format
const (
	magicNum     = "BIRCHDB\x00" // File format identifier
	birchVersion = 1             // File format version
	bufferSize   = 1024 * 1024   // Read/write buffer size (1 MB)
)

// --------------------------------------------------------------------------
// Core Birch database structure
// --------------------------------------------------------------------------

// birchImpl implements an embedded hash table database with a binary data file
type birchImpl struct {
	path  string // Data file path, fixed at construction
	data  *xsync.MapOf[string, string]
	dirty atomic.Bool // Set on every mutation, cleared by Sync
}

// NewBirchDB opens (or creates) an embedded birch database backed by the file
// at path. If the file exists its contents are loaded; if it does not, the
// database starts empty and the file is created on the first Sync or Close.
//
// Thread-safety: This function is not thread-safe and should only be called
// once per data file during initialization.
func NewBirchDB(path string) (db.KVDB, error) {
	birch := &birchImpl{
		path: path,
		data: xsync.NewMapOf[string, string](),
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return birch, nil
	}
	if err != nil {
		return nil, fmt.Errorf("birch: open %s: %w", path, err)
	}
	defer f.Close()

	if err := birch.load(f); err != nil {
		return nil, fmt.Errorf("birch: load %s: %w", path, err)
	}
	return birch, nil
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Put inserts or updates an entry with the given key and value.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) Put(key, value string) {
	birch.data.Store(key, value)
	birch.dirty.Store(true)
}

// Delete removes an entry with the specified key.
// Returns db.ErrKeyNotFound if the key is absent.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) Delete(key string) error {
	if _, loaded := birch.data.LoadAndDelete(key); !loaded {
		return db.ErrKeyNotFound
	}
	birch.dirty.Store(true)
	return nil
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Query Operations
// --------------------------------------------------------------------------

// Get retrieves the value for an exact key.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) Get(key string) (string, bool) {
	return birch.data.Load(key)
}

// Has checks whether a key exists in the database.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) Has(key string) bool {
	_, loaded := birch.data.Load(key)
	return loaded
}

// Len returns the number of live keys.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) Len() int {
	return birch.data.Size()
}

// IterateKeys calls fn for every current key until fn returns false.
//
// Thread-safety: This method is thread-safe; the traversal reflects a weakly
// consistent snapshot of the map.
func (birch *birchImpl) IterateKeys(fn func(key string) bool) {
	birch.data.Range(func(key string, _ string) bool {
		return fn(key)
	})
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// Sync writes the current state to the data file. The write goes to a
// temporary file first and is moved into place with a rename, so the previous
// file is never left half-written.
//
// Thread-safety: This method must not be called concurrently with itself or
// with Close.
func (birch *birchImpl) Sync() error {
	if !birch.dirty.Load() {
		return nil
	}

	tmp := birch.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("birch: create %s: %w", tmp, err)
	}

	if err := birch.save(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("birch: save %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, birch.path); err != nil {
		os.Remove(tmp)
		return err
	}

	birch.dirty.Store(false)
	return nil
}

// save writes the file header and all entries to w
func (birch *birchImpl) save(w io.Writer) error {
	bw := bufio.NewWriterSize(w, bufferSize)

	// Snapshot all entries
	type entryToSave struct {
		key   string
		value string
	}
	var entries []entryToSave
	birch.data.Range(func(key string, value string) bool {
		entries = append(entries, entryToSave{key, value})
		return true
	})

	// Write file header
	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}

	// Write format version
	if err := binary.Write(bw, binary.LittleEndian, uint8(birchVersion)); err != nil {
		return err
	}

	// Write total entry count
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(entries))); err != nil {
		return err
	}

	// Write entries as length-prefixed key/value pairs
	for _, item := range entries {
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(item.key))); err != nil {
			return err
		}
		if _, err := bw.WriteString(item.key); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(item.value))); err != nil {
			return err
		}
		if _, err := bw.WriteString(item.value); err != nil {
			return err
		}
	}

	// Flush buffer to ensure all data is written
	return bw.Flush()
}

// load restores the database from r
func (birch *birchImpl) load(r io.Reader) error {
	br := bufio.NewReaderSize(r, bufferSize)

	// Read and verify magic number
	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return err
	}
	if string(magicBytes) != magicNum {
		return fmt.Errorf("invalid file format: magic number mismatch")
	}

	// Read and verify version
	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version != birchVersion {
		return fmt.Errorf("unsupported file version: %d", version)
	}

	// Read entry count
	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return err
	}

	// Read entries
	for i := uint64(0); i < count; i++ {
		key, err := readLengthPrefixed(br)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		value, err := readLengthPrefixed(br)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		birch.data.Store(key, value)
	}

	return nil
}

// readLengthPrefixed reads a uint32 length followed by that many bytes
func readLengthPrefixed(br *bufio.Reader) (string, error) {
	var length uint32
	if err := binary.Read(br, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(br, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// --------------------------------------------------------------------------
// Feature Support and Lifecycle
// --------------------------------------------------------------------------

const birchFeatures = db.FeaturePut | db.FeatureGet | db.FeatureDelete |
	db.FeatureHas | db.FeatureLen | db.FeatureIterate | db.FeaturePersist

// SupportsFeature checks if the database implementation supports the specified feature.
func (birch *birchImpl) SupportsFeature(feature db.Feature) bool {
	return birchFeatures&feature == feature
}

// GetInfo returns information about the database.
func (birch *birchImpl) GetInfo() db.DatabaseInfo {
	return db.DatabaseInfo{
		Keys:   birch.data.Size(),
		DbType: db.ImplBirch,
		SupportedFeatures: []db.Feature{
			db.FeaturePut, db.FeatureGet, db.FeatureDelete,
			db.FeatureHas, db.FeatureLen, db.FeatureIterate, db.FeaturePersist,
		},
		Metadata: map[string]string{"path": birch.path},
	}
}

// Close syncs pending changes to the data file and releases the database.
func (birch *birchImpl) Close() error {
	if err := birch.Sync(); err != nil {
		return err
	}
	birch.data.Clear()
	return nil
}
