package jstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jkvdb/jKV/lib/db"
	"github.com/jkvdb/jKV/lib/journal"
	"github.com/jkvdb/jKV/lib/store"
)

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// JournalSuffix is appended to Filename when JournalFilename is not supplied.
const JournalSuffix = ".journal.gz"

// Config is the construction surface of a journaling store. At least one of
// Filename and JournalFilename must be supplied; the journal path is resolved
// exactly once, at construction.
type Config struct {
	// Filename identifies the store. Backends that persist to disk use it as
	// their data file; it also serves as the base for the default journal path.
	Filename string
	// JournalFilename is the journal file path. Defaults to
	// Filename + JournalSuffix when empty.
	JournalFilename string
	// CreateDirectories controls whether missing parent directories of the
	// journal path are created at construction. The zero value disables it;
	// start from DefaultConfig to get the default of true.
	CreateDirectories bool
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{CreateDirectories: true}
}

// resolveJournalPath performs the configuration resolution step of the
// construction protocol. Fails when neither identity is supplied.
func (c Config) resolveJournalPath() (string, error) {
	if c.JournalFilename != "" {
		return c.JournalFilename, nil
	}
	if c.Filename != "" {
		return c.Filename + JournalSuffix, nil
	}
	return "", store.NewError(store.RetCConfiguration, "filename or journal filename is required")
}

// --------------------------------------------------------------------------
// Store Implementation
// --------------------------------------------------------------------------

// storeImpl binds one db.KVDB and one journal.Journal 1:1 for their lifetime
type storeImpl struct {
	db      db.KVDB
	journal *journal.Journal
}

// NewJournalingStore creates a journaling store: every mutation is applied to
// the backend created by factory and, unless suppressed, appended to the
// journal afterwards. The journal is opened for appending immediately.
//
// This store implementation is single-owner: no internal locking is provided
// and concurrent mutation of the same instance is not supported. Callers
// needing multi-actor access must serialize externally.
func NewJournalingStore(factory store.DBFactory, cfg Config) (store.IStore, error) {
	path, err := cfg.resolveJournalPath()
	if err != nil {
		return nil, err
	}

	if cfg.CreateDirectories {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, store.WrapError(store.RetCConfiguration,
					fmt.Sprintf("create journal directory %s", dir), err)
			}
		}
	}

	database, err := factory()
	if err != nil {
		return nil, store.WrapError(store.RetCInternalError, "create backend", err)
	}

	jnl, err := journal.New(path)
	if err != nil {
		database.Close()
		return nil, store.WrapError(store.RetCInternalError, "open journal", err)
	}

	return &storeImpl{db: database, journal: jnl}, nil
}

// Journal exposes the owned journal. Intended for inspection and for
// journal-level maintenance such as Clear; the store remains the only writer.
func (s *storeImpl) Journal() *journal.Journal {
	return s.journal
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Put(key, value string, journaling bool) error {
	if !s.db.SupportsFeature(db.FeaturePut) {
		return store.NewError(store.RetCUnsupportedOperation, "Put operation is not supported")
	}

	// The store mutation comes first: a failed mutation must never leave an
	// orphan log entry. The reverse divergence (store ahead of the log after
	// a failed append) is accepted.
	s.db.Put(key, value)

	if journaling {
		if err := s.journal.LogPut(key, value); err != nil {
			return store.WrapError(store.RetCInternalError, "journal put", err)
		}
	}
	return nil
}

func (s *storeImpl) Get(key, def string) (string, error) {
	if !s.db.SupportsFeature(db.FeatureGet) {
		return def, store.NewError(store.RetCUnsupportedOperation, "Get operation is not supported")
	}
	if value, loaded := s.db.Get(key); loaded {
		return value, nil
	}
	return def, nil
}

func (s *storeImpl) Delete(key string, journaling bool) error {
	if !s.db.SupportsFeature(db.FeatureDelete) {
		return store.NewError(store.RetCUnsupportedOperation, "Delete operation is not supported")
	}

	if err := s.db.Delete(key); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return store.WrapError(store.RetCKeyNotFound, fmt.Sprintf("delete %q", key), err)
		}
		return store.WrapError(store.RetCInternalError, fmt.Sprintf("delete %q", key), err)
	}

	if journaling {
		if err := s.journal.LogDelete(key); err != nil {
			return store.WrapError(store.RetCInternalError, "journal delete", err)
		}
	}
	return nil
}

func (s *storeImpl) Has(key string) (bool, error) {
	if !s.db.SupportsFeature(db.FeatureHas) {
		return false, store.NewError(store.RetCUnsupportedOperation, "Has operation is not supported")
	}
	return s.db.Has(key), nil
}

func (s *storeImpl) Count() (int, error) {
	if !s.db.SupportsFeature(db.FeatureLen) {
		return 0, store.NewError(store.RetCUnsupportedOperation, "Len operation is not supported")
	}
	return s.db.Len(), nil
}

func (s *storeImpl) Keys() ([]string, error) {
	if !s.db.SupportsFeature(db.FeatureIterate) {
		return nil, store.NewError(store.RetCUnsupportedOperation, "IterateKeys operation is not supported")
	}

	// Materialized before any mutation: delete-while-iterating is never
	// assumed safe on the backend.
	keys := make([]string, 0, s.db.Len())
	s.db.IterateKeys(func(key string) bool {
		keys = append(keys, key)
		return true
	})
	return keys, nil
}

func (s *storeImpl) Clear(journaling bool) error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.Delete(key, journaling); err != nil {
			return err
		}
	}
	return nil
}

// RestoreFromJournal rebuilds the backend from the journal. The order is
// load-bearing:
//
//  1. Clear the store without journaling - the existing log is the source of
//     truth, new log entries would duplicate history.
//  2. Reopen the journal for reading.
//  3. Replay each record, in file order, as a non-journaled mutation. A
//     delete whose target is absent propagates RetCKeyNotFound and aborts;
//     partial replay state is left as-is.
//  4. Reopen the journal for appending.
func (s *storeImpl) RestoreFromJournal() error {
	if err := s.Clear(false); err != nil {
		return err
	}

	if err := s.journal.OpenRead(); err != nil {
		if errors.Is(err, journal.ErrJournalUnavailable) {
			return store.WrapError(store.RetCJournalUnavailable, "restore", err)
		}
		return store.WrapError(store.RetCInternalError, "restore", err)
	}

	if err := s.journal.ReadAll(s.replayRecord); err != nil {
		var corrupt *journal.CorruptionError
		if errors.As(err, &corrupt) {
			return store.WrapError(store.RetCJournalCorruption, "restore", err)
		}
		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			return err
		}
		return store.WrapError(store.RetCInternalError, "restore", err)
	}

	if err := s.journal.OpenAppend(); err != nil {
		return store.WrapError(store.RetCInternalError, "reopen journal for append", err)
	}
	return nil
}

// replayRecord applies one journal record as a non-journaled mutation
func (s *storeImpl) replayRecord(rec journal.Record) error {
	switch rec.Op {
	case journal.OpPut:
		return s.Put(rec.Key, rec.Value, false)
	case journal.OpDelete:
		return s.Delete(rec.Key, false)
	default:
		return store.NewError(store.RetCInternalError,
			fmt.Sprintf("unknown record op %q", string(rec.Op)))
	}
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.GetInfo(), nil
}

func (s *storeImpl) Close() error {
	errs := []error{
		s.db.Close(),
		s.journal.Close(),
	}
	if err := errors.Join(errs...); err != nil {
		return store.WrapError(store.RetCInternalError, "close", err)
	}
	return nil
}
