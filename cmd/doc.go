// Package cmd implements the command-line interface for the jKV journaling
// key-value store. It provides a hierarchical command structure for working
// with a local store and its journal.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value store operations (get, put, delete, restore, etc.)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See jkv -help for a list of all commands.
package cmd
