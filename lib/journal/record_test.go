package journal

import (
	"testing"
)

func TestRecordWireFormat(t *testing.T) {
	put := Record{Op: OpPut, Key: "a", Value: "111"}
	line, err := put.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(line) != `["+","a","111"]` {
		t.Errorf("put encoding: got %s", line)
	}

	del := Record{Op: OpDelete, Key: "a"}
	line, err = del.encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(line) != `["-","a"]` {
		t.Errorf("delete encoding: got %s", line)
	}
}

func TestRecordRoundTripAwkwardContent(t *testing.T) {
	// Newlines, quotes and unicode must survive the one-record-per-line rule.
	records := []Record{
		{Op: OpPut, Key: "key\nwith\nnewlines", Value: "value\twith\ttabs"},
		{Op: OpPut, Key: `key"quoted"`, Value: ""},
		{Op: OpPut, Key: "键", Value: "значение"},
		{Op: OpDelete, Key: "key with spaces"},
	}

	for _, rec := range records {
		line, err := rec.encode()
		if err != nil {
			t.Fatalf("encode %+v: %v", rec, err)
		}
		for _, b := range line {
			if b == '\n' {
				t.Errorf("encoded record %+v spans multiple lines: %s", rec, line)
			}
		}
		got, err := decodeRecord(line)
		if err != nil {
			t.Fatalf("decode %s: %v", line, err)
		}
		if got != rec {
			t.Errorf("round trip: expected %+v, got %+v", rec, got)
		}
	}
}

func TestDecodeRejectsUnrecognizedLines(t *testing.T) {
	bad := []string{
		`["?","key"]`,         // unknown tag
		`["+","key"]`,         // put with missing value
		`["-","key","extra"]`, // delete with excess field
		`[]`,                  // empty array
		`{"op":"+"}`,          // wrong JSON shape
		`not json at all`,
	}
	for _, line := range bad {
		if _, err := decodeRecord([]byte(line)); err == nil {
			t.Errorf("expected decode error for %s", line)
		}
	}
}
