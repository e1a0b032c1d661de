package store

import (
	"errors"
	"fmt"

	"github.com/jkvdb/jKV/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates the db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() (db.KVDB, error)

// IStore is the generic interface for a journaling key-value store.
// Mutating operations take a journaling flag: when true, the mutation is
// appended to the store's journal after it has been applied to the backend;
// when false, the backend changes but the journal does not. Replay uses the
// false path so that restoring never re-logs what is already logged.
//
// All operations return a *Error (as error, nil on success).
type IStore interface {
	// Put inserts or updates a key-value pair, journaling it if requested.
	Put(key, value string, journaling bool) error
	// Get returns the value for a key, or def when the key is absent.
	// A missing key is not an error.
	Get(key, def string) (value string, err error)
	// Delete deletes a key-value pair, journaling it if requested.
	// Deleting an absent key fails with RetCKeyNotFound.
	Delete(key string, journaling bool) error
	// Has returns whether a key exists in the store.
	Has(key string) (loaded bool, err error)
	// Count returns the number of live keys.
	Count() (n int, err error)
	// Keys returns a materialized snapshot of all current keys.
	Keys() (keys []string, err error)
	// Clear deletes every key currently in the store, each deletion routed
	// through Delete with the given journaling flag.
	Clear(journaling bool) error
	// RestoreFromJournal empties the store and replays the journal against it,
	// rebuilding the logical state the journal describes. On success the
	// journal is left open for appending.
	RestoreFromJournal() error
	// GetDBInfo returns metadata about the database underlying the store.
	GetDBInfo() (info db.DatabaseInfo, err error)
	// Close releases the backend and the journal stream together.
	Close() error
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// an error message and optionally the underlying cause.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
	Err  error   // The underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("KVStoreError (code %s): %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("KVStoreError (code %s): %s", e.Code, e.Msg)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// WrapError creates a new Error with the given code, message and cause.
func WrapError(code RetCode, msg string, err error) *Error {
	return &Error{Code: code, Msg: msg, Err: err}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by underlying database.
	RetCConfiguration                       // 3: Invalid or missing configuration at construction.
	RetCKeyNotFound                         // 4: Delete of an absent key.
	RetCJournalUnavailable                  // 5: Read requested on a nonexistent journal file.
	RetCJournalCorruption                   // 6: A journal line did not parse into a recognized record.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCConfiguration:
		return "Configuration"
	case RetCKeyNotFound:
		return "KeyNotFound"
	case RetCJournalUnavailable:
		return "JournalUnavailable"
	case RetCJournalCorruption:
		return "JournalCorruption"
	default:
		return "Unknown"
	}
}

// HasCode reports whether err is (or wraps) a store Error with the given code.
func HasCode(err error, code RetCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
