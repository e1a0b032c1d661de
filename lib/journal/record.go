package journal

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Record Types
// --------------------------------------------------------------------------

// Op is the tag identifying the kind of mutation a record describes
type Op string

const (
	OpPut    Op = "+" // Record describes a put
	OpDelete Op = "-" // Record describes a delete
)

func (op Op) String() string {
	switch op {
	case OpPut:
		return "Put"
	case OpDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Record represents one logged mutation. The tag comes first on the wire so
// replay can dispatch without an external schema. Value is only meaningful
// for OpPut records.
type Record struct {
	Op    Op
	Key   string
	Value string
}

// --------------------------------------------------------------------------
// Wire Encoding
// --------------------------------------------------------------------------

// Each record is one line of the decompressed journal, encoded as a JSON
// array of strings: ["+",key,value] for a put, ["-",key] for a delete.
// JSON string escaping keeps arbitrary keys and values on a single line.

// encode serializes the record as a single JSON line (without the trailing newline)
func (r Record) encode() ([]byte, error) {
	switch r.Op {
	case OpPut:
		return json.Marshal([]string{string(OpPut), r.Key, r.Value})
	case OpDelete:
		return json.Marshal([]string{string(OpDelete), r.Key})
	default:
		return nil, fmt.Errorf("journal: cannot encode record with unknown op %q", string(r.Op))
	}
}

// decodeRecord parses one journal line into a Record. Any line that does not
// decode to a recognized tag is an error; the caller attaches the line number.
func decodeRecord(line []byte) (Record, error) {
	var fields []string
	if err := json.Unmarshal(line, &fields); err != nil {
		return Record{}, fmt.Errorf("malformed record: %w", err)
	}
	if len(fields) == 0 {
		return Record{}, fmt.Errorf("malformed record: empty array")
	}

	switch Op(fields[0]) {
	case OpPut:
		if len(fields) != 3 {
			return Record{}, fmt.Errorf("put record has %d fields, want 3", len(fields))
		}
		return Record{Op: OpPut, Key: fields[1], Value: fields[2]}, nil
	case OpDelete:
		if len(fields) != 2 {
			return Record{}, fmt.Errorf("delete record has %d fields, want 2", len(fields))
		}
		return Record{Op: OpDelete, Key: fields[1]}, nil
	default:
		return Record{}, fmt.Errorf("unrecognized record tag %q", fields[0])
	}
}
