package journal

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// decompress returns the logical (decompressed) lines of a journal file.
func decompress(t *testing.T, path string) []string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(raw) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
}

// writeRawJournal writes pre-built lines as a gzip stream, bypassing the
// Journal's encoder. Used to construct corrupt logs.
func writeRawJournal(t *testing.T, path string, lines []string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	zw := gzip.NewWriter(f)
	for _, line := range lines {
		if _, err := zw.Write([]byte(line + "\n")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}

func newTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := New(filepath.Join(t.TempDir(), "test.journal.gz"))
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestAppendProducesOneLinePerRecord(t *testing.T) {
	j := newTestJournal(t)

	if err := j.LogPut("a", "111"); err != nil {
		t.Fatalf("log put: %v", err)
	}
	if err := j.LogPut("b", "222"); err != nil {
		t.Fatalf("log put: %v", err)
	}
	if err := j.LogDelete("a"); err != nil {
		t.Fatalf("log delete: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines := decompress(t, j.Path())
	want := []string{
		`["+","a","111"]`,
		`["+","b","222"]`,
		`["-","a"]`,
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %s, got %s", i+1, want[i], lines[i])
		}
	}
}

func TestReadAllReturnsRecordsInFileOrder(t *testing.T) {
	j := newTestJournal(t)

	if err := j.LogPut("x", "1"); err != nil {
		t.Fatalf("log put: %v", err)
	}
	if err := j.LogDelete("x"); err != nil {
		t.Fatalf("log delete: %v", err)
	}
	if err := j.LogPut("y", "2"); err != nil {
		t.Fatalf("log put: %v", err)
	}

	if err := j.OpenRead(); err != nil {
		t.Fatalf("open read: %v", err)
	}

	var got []Record
	if err := j.ReadAll(func(rec Record) error {
		got = append(got, rec)
		return nil
	}); err != nil {
		t.Fatalf("read all: %v", err)
	}

	want := []Record{
		{Op: OpPut, Key: "x", Value: "1"},
		{Op: OpDelete, Key: "x"},
		{Op: OpPut, Key: "y", Value: "2"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d: expected %+v, got %+v", i+1, want[i], got[i])
		}
	}
}

func TestAppendAfterReopenKeepsExistingContent(t *testing.T) {
	j := newTestJournal(t)

	if err := j.LogPut("first", "1"); err != nil {
		t.Fatalf("log put: %v", err)
	}

	// Switch away and back: append mode must never lose existing content.
	if err := j.OpenRead(); err != nil {
		t.Fatalf("open read: %v", err)
	}
	if err := j.OpenAppend(); err != nil {
		t.Fatalf("open append: %v", err)
	}
	if err := j.LogPut("second", "2"); err != nil {
		t.Fatalf("log put: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines := decompress(t, j.Path())
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
}

func TestSurvivesProcessStyleReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.journal.gz")

	first, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := first.LogPut("k", "v"); err != nil {
		t.Fatalf("log put: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A second Journal instance on the same path sees the earlier records
	// and appends after them.
	second, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer second.Close()

	if err := second.LogDelete("k"); err != nil {
		t.Fatalf("log delete: %v", err)
	}
	if err := second.OpenRead(); err != nil {
		t.Fatalf("open read: %v", err)
	}

	var count int
	if err := second.ReadAll(func(Record) error {
		count++
		return nil
	}); err != nil {
		t.Fatalf("read all: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 records across reopen, got %d", count)
	}
}

func TestClearEmptiesTheLog(t *testing.T) {
	j := newTestJournal(t)

	if err := j.LogPut("a", "111"); err != nil {
		t.Fatalf("log put: %v", err)
	}
	if err := j.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	// Clear leaves the journal ready for new writes.
	if j.Mode() != OpenForAppend {
		t.Errorf("expected mode %s after clear, got %s", OpenForAppend, j.Mode())
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if lines := decompress(t, j.Path()); len(lines) != 0 {
		t.Errorf("expected empty log after clear, got %v", lines)
	}
}

func TestOpenReadMissingFile(t *testing.T) {
	j := &Journal{path: filepath.Join(t.TempDir(), "does-not-exist.journal.gz")}

	if err := j.OpenRead(); !errors.Is(err, ErrJournalUnavailable) {
		t.Fatalf("expected ErrJournalUnavailable, got %v", err)
	}
}

func TestReadAllOnEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.journal.gz")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	j := &Journal{path: path}
	if err := j.OpenRead(); err != nil {
		t.Fatalf("open read: %v", err)
	}
	defer j.Close()

	if err := j.ReadAll(func(Record) error {
		t.Fatal("callback invoked for empty journal")
		return nil
	}); err != nil {
		t.Fatalf("read all: %v", err)
	}
}

func TestCorruptLineReportsLineNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.journal.gz")
	writeRawJournal(t, path, []string{
		`["+","a","111"]`,
		`["?","bogus"]`,
		`["-","a"]`,
	})

	j := &Journal{path: path}
	if err := j.OpenRead(); err != nil {
		t.Fatalf("open read: %v", err)
	}
	defer j.Close()

	err := j.ReadAll(func(Record) error { return nil })

	var corrupt *CorruptionError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptionError, got %v", err)
	}
	if corrupt.Line != 2 {
		t.Errorf("expected corruption at line 2, got line %d", corrupt.Line)
	}
}

func TestModeEnforcement(t *testing.T) {
	j := newTestJournal(t)

	if err := j.OpenRead(); err != nil {
		t.Fatalf("open read: %v", err)
	}
	if err := j.LogPut("k", "v"); err == nil {
		t.Error("expected error appending while in read mode")
	}

	if err := j.OpenAppend(); err != nil {
		t.Fatalf("open append: %v", err)
	}
	if err := j.ReadAll(func(Record) error { return nil }); err == nil {
		t.Error("expected error reading while in append mode")
	}
}

func TestReadAllStopsOnCallbackError(t *testing.T) {
	j := newTestJournal(t)

	for i := 0; i < 5; i++ {
		if err := j.LogPut("k", "v"); err != nil {
			t.Fatalf("log put: %v", err)
		}
	}
	if err := j.OpenRead(); err != nil {
		t.Fatalf("open read: %v", err)
	}

	sentinel := errors.New("stop")
	seen := 0
	err := j.ReadAll(func(Record) error {
		seen++
		if seen == 2 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if seen != 2 {
		t.Errorf("expected replay to stop after 2 records, saw %d", seen)
	}
}
