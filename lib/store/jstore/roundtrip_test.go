package jstore

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/jkvdb/jKV/lib/store"
)

// snapshot materializes the store's state as a plain map.
func snapshot(t testing.TB, s store.IStore) map[string]string {
	t.Helper()

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	state := make(map[string]string, len(keys))
	for _, key := range keys {
		value, err := s.Get(key, "")
		if err != nil {
			t.Fatalf("get %q: %v", key, err)
		}
		state[key] = value
	}
	return state
}

// TestRoundTripProperty checks the core durability invariant: for any finite
// sequence of journaled puts and deletes, clearing the store and replaying
// the journal reproduces an identical key set with identical values.
func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		// Fresh directory per run so journal files never leak between runs.
		path := filepath.Join(t.TempDir(), "roundtrip.journal.gz")
		s, err := NewJournalingStore(hazelFactory, Config{JournalFilename: path})
		if err != nil {
			rt.Fatalf("new store: %v", err)
		}
		defer s.Close()

		// Model of the expected live state.
		model := make(map[string]string)

		keyGen := rapid.StringMatching(`[a-z]{1,4}`)
		valueGen := rapid.StringN(0, 16, -1)

		numOps := rapid.IntRange(0, 200).Draw(rt, "numOps")
		for i := 0; i < numOps; i++ {
			key := keyGen.Draw(rt, "key")

			// Deletes are only valid for live keys, so bias towards puts and
			// only delete when the drawn key currently exists.
			if _, live := model[key]; live && rapid.Bool().Draw(rt, "del") {
				if err := s.Delete(key, true); err != nil {
					rt.Fatalf("delete %q: %v", key, err)
				}
				delete(model, key)
				continue
			}

			value := valueGen.Draw(rt, "value")
			if err := s.Put(key, value, true); err != nil {
				rt.Fatalf("put %q: %v", key, err)
			}
			model[key] = value
		}

		// Wipe the store without touching the journal, then rebuild.
		if err := s.Clear(false); err != nil {
			rt.Fatalf("clear: %v", err)
		}
		if n, _ := s.Count(); n != 0 {
			rt.Fatalf("expected empty store after clear, got %d keys", n)
		}
		if err := s.RestoreFromJournal(); err != nil {
			rt.Fatalf("restore: %v", err)
		}

		if diff := cmp.Diff(model, snapshot(t, s)); diff != "" {
			rt.Fatalf("restored state differs from model (-want +got):\n%s", diff)
		}
	})
}
