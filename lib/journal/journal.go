package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/VictoriaMetrics/metrics"
	"github.com/klauspost/compress/gzip"
)

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

var (
	appendsTotal     = metrics.GetOrCreateCounter("jkv_journal_appends_total")
	replayedTotal    = metrics.GetOrCreateCounter("jkv_journal_records_replayed_total")
	corruptionsTotal = metrics.GetOrCreateCounter("jkv_journal_corruptions_total")
)

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

// ErrJournalUnavailable is returned by OpenRead when the journal file does
// not exist.
var ErrJournalUnavailable = errors.New("journal file does not exist")

// CorruptionError reports a journal line that did not decode to a recognized
// record. Line is 1-based.
type CorruptionError struct {
	Path string
	Line int
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("journal %s corrupt at line %d: %v", e.Path, e.Line, e.Err)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// --------------------------------------------------------------------------
// Mode State Machine
// --------------------------------------------------------------------------

// Mode is the state of the journal's single stream
type Mode int

const (
	Closed          Mode = iota // No open stream
	OpenForAppend               // Writable, records appended after existing content
	OpenForRead                 // Readable, positioned at the first record
	OpenForTruncate             // Writable, all prior content discarded
)

func (m Mode) String() string {
	switch m {
	case Closed:
		return "Closed"
	case OpenForAppend:
		return "OpenForAppend"
	case OpenForRead:
		return "OpenForRead"
	case OpenForTruncate:
		return "OpenForTruncate"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Journal
// --------------------------------------------------------------------------

// Journal is an append-only, gzip-compressed, newline-delimited record log.
// A Journal owns at most one open stream at any time: every Open* call closes
// the previous stream before opening the new one. Leaving a stale writable
// handle open across a mode switch could interleave reads and writes on the
// same file, so the single-stream rule is a correctness requirement.
//
// Thread-safety: A Journal is not safe for concurrent use; callers must
// serialize access externally.
type Journal struct {
	path string
	mode Mode

	file   *os.File
	writer *gzip.Writer  // Non-nil while OpenForAppend or OpenForTruncate
	reader *bufio.Reader // Non-nil while OpenForRead with readable content
	zr     *gzip.Reader  // Underlying decompressor for reader
}

// New creates a Journal bound to path and opens it for appending, creating
// the file if it does not exist.
func New(path string) (*Journal, error) {
	j := &Journal{path: path}
	if err := j.OpenAppend(); err != nil {
		return nil, err
	}
	return j, nil
}

// Path returns the journal file path, fixed at construction.
func (j *Journal) Path() string {
	return j.path
}

// Mode returns the current stream state.
func (j *Journal) Mode() Mode {
	return j.mode
}

// --------------------------------------------------------------------------
// Stream Management
// --------------------------------------------------------------------------

// closeStream closes whatever stream is currently open and resets the mode.
// Closing the gzip writer finalizes the current compressed member; the next
// append starts a new member, which the reader handles transparently.
func (j *Journal) closeStream() error {
	var errs []error

	if j.writer != nil {
		errs = append(errs, j.writer.Close())
		j.writer = nil
	}
	if j.zr != nil {
		errs = append(errs, j.zr.Close())
		j.zr = nil
	}
	j.reader = nil
	if j.file != nil {
		errs = append(errs, j.file.Close())
		j.file = nil
	}

	j.mode = Closed
	return errors.Join(errs...)
}

// OpenAppend switches the journal to append mode, creating the file if it is
// absent. Existing content is never lost; subsequent records are appended
// after it.
func (j *Journal) OpenAppend() error {
	if err := j.closeStream(); err != nil {
		return err
	}

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("journal: open %s for append: %w", j.path, err)
	}

	j.file = f
	j.writer = gzip.NewWriter(f)
	j.mode = OpenForAppend
	return nil
}

// OpenRead switches the journal to read mode, positioned at the first record.
// Fails with ErrJournalUnavailable if the file does not exist.
func (j *Journal) OpenRead() error {
	if err := j.closeStream(); err != nil {
		return err
	}

	f, err := os.Open(j.path)
	if os.IsNotExist(err) {
		return fmt.Errorf("journal: open %s for read: %w", j.path, ErrJournalUnavailable)
	}
	if err != nil {
		return fmt.Errorf("journal: open %s for read: %w", j.path, err)
	}

	zr, err := gzip.NewReader(f)
	if err == io.EOF {
		// Zero-length file: a valid, empty journal.
		j.file = f
		j.mode = OpenForRead
		return nil
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("journal: open %s for read: %w", j.path, err)
	}

	j.file = f
	j.zr = zr
	j.reader = bufio.NewReader(zr)
	j.mode = OpenForRead
	return nil
}

// OpenTruncate switches the journal to truncate-write mode, destroying all
// existing content. Used exclusively by Clear, never by normal recovery.
func (j *Journal) OpenTruncate() error {
	if err := j.closeStream(); err != nil {
		return err
	}

	f, err := os.Create(j.path)
	if err != nil {
		return fmt.Errorf("journal: truncate %s: %w", j.path, err)
	}

	j.file = f
	j.writer = gzip.NewWriter(f)
	j.mode = OpenForTruncate
	return nil
}

// Clear empties the journal file and leaves it open for appending. The
// underlying store is not touched.
func (j *Journal) Clear() error {
	if err := j.OpenTruncate(); err != nil {
		return err
	}
	return j.OpenAppend()
}

// Close releases the open stream, if any.
func (j *Journal) Close() error {
	return j.closeStream()
}

// --------------------------------------------------------------------------
// Appending
// --------------------------------------------------------------------------

// LogPut appends a put record. Valid only while OpenForAppend.
func (j *Journal) LogPut(key, value string) error {
	return j.appendRecord(Record{Op: OpPut, Key: key, Value: value})
}

// LogDelete appends a delete record. Valid only while OpenForAppend.
func (j *Journal) LogDelete(key string) error {
	return j.appendRecord(Record{Op: OpDelete, Key: key})
}

// appendRecord serializes the record as one line and flushes it through the
// compressed stream. The flush keeps every record written before process
// exit replayable; no buffering across process boundaries is assumed safe.
func (j *Journal) appendRecord(r Record) error {
	if j.mode != OpenForAppend {
		return fmt.Errorf("journal: append requires %s mode, journal is %s", OpenForAppend, j.mode)
	}

	line, err := r.encode()
	if err != nil {
		return err
	}

	if _, err := j.writer.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("journal: append to %s: %w", j.path, err)
	}
	if err := j.writer.Flush(); err != nil {
		return fmt.Errorf("journal: flush %s: %w", j.path, err)
	}

	appendsTotal.Inc()
	return nil
}

// --------------------------------------------------------------------------
// Reading
// --------------------------------------------------------------------------

// ReadAll decodes every record in file order, one per line, and passes each
// to fn. Valid only while OpenForRead. A line that does not decode to a
// recognized tag aborts with a *CorruptionError identifying the 1-based line
// number; an error returned by fn aborts with that error.
func (j *Journal) ReadAll(fn func(Record) error) error {
	if j.mode != OpenForRead {
		return fmt.Errorf("journal: read requires %s mode, journal is %s", OpenForRead, j.mode)
	}
	if j.reader == nil {
		// Empty journal.
		return nil
	}

	for line := 1; ; line++ {
		raw, err := j.reader.ReadBytes('\n')
		if err == io.EOF {
			if len(raw) == 0 {
				return nil
			}
			// Final record without trailing newline is still one record.
		} else if err != nil {
			return fmt.Errorf("journal: read %s: %w", j.path, err)
		}

		raw = trimNewline(raw)
		if len(raw) == 0 && err == io.EOF {
			return nil
		}

		rec, decErr := decodeRecord(raw)
		if decErr != nil {
			corruptionsTotal.Inc()
			return &CorruptionError{Path: j.path, Line: line, Err: decErr}
		}

		if fnErr := fn(rec); fnErr != nil {
			return fnErr
		}
		replayedTotal.Inc()

		if err == io.EOF {
			return nil
		}
	}
}

// trimNewline strips a trailing newline from a journal line
func trimNewline(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		return line[:n-1]
	}
	return line
}
