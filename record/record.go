package record

import (
	"github.com/pkg/errors"

	sf "sqlitefile"
	"sqlitefile/btreeio"
)

// Record is a decoded table row: one Value per column, in schema order.
type Record struct {
	SerialTypes []int64
	Values      []Value
}

// Column returns the i'th value, or the zero Value (Null) if the record
// has fewer columns — this mirrors SQLite's own "missing trailing
// columns are NULL" behavior after an ALTER TABLE ADD COLUMN.
func (r *Record) Column(i int) Value {
	if i < 0 || i >= len(r.Values) {
		return Value{Type: Null}
	}
	return r.Values[i]
}

// DecodeRecord decodes a fully reassembled row payload (header + body,
// as produced by the payload assembler's Load) into a Record.
//
// Record format: a varint giving the header length (including itself),
// followed by one varint serial type per column, followed by the
// column bodies back to back in the same order.
func DecodeRecord(payload []byte) (*Record, error) {
	headerLen, n, err := btreeio.ReadVarint(payload, 0)
	if err != nil {
		return nil, errors.Wrap(sf.ErrPageParse, "read record header length")
	}
	if headerLen < int64(n) || int(headerLen) > len(payload) {
		return nil, errors.Wrap(sf.ErrPageParse, "record header length out of range")
	}

	var serialTypes []int64
	offset := n
	for offset < int(headerLen) {
		st, k, err := btreeio.ReadVarint(payload, offset)
		if err != nil {
			return nil, errors.Wrap(sf.ErrPageParse, "read record serial type")
		}
		serialTypes = append(serialTypes, st)
		offset += k
	}

	values := make([]Value, 0, len(serialTypes))
	bodyOffset := int(headerLen)
	for _, st := range serialTypes {
		size := serialTypeSize(st)
		if bodyOffset+size > len(payload) {
			return nil, errors.Wrap(sf.ErrPageParse, "record body truncated")
		}
		values = append(values, decodeValue(st, payload[bodyOffset:bodyOffset+size]))
		bodyOffset += size
	}

	return &Record{SerialTypes: serialTypes, Values: values}, nil
}
