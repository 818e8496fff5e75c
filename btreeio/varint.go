// Package btreeio implements the SQLite B-tree page codec: page headers,
// leaf/interior table cell parsing, overflow page parsing, and the
// varint encoding used throughout the file format.
package btreeio

import "github.com/pkg/errors"

// ErrTruncatedVarint is returned when a varint runs past the end of its
// buffer without terminating.
var ErrTruncatedVarint = errors.New("truncated varint")

// ReadVarint decodes a SQLite varint starting at data[offset]. It
// returns the decoded value and the number of bytes consumed. A varint
// is 1-9 bytes: the high bit of each of the first 8 bytes signals
// continuation: on the 9th byte all 8 bits are significant.
func ReadVarint(data []byte, offset int) (value int64, n int, err error) {
	var v uint64
	for i := 0; i < 9; i++ {
		if offset+i >= len(data) {
			return 0, 0, errors.Wrapf(ErrTruncatedVarint, "at offset %d", offset)
		}
		b := data[offset+i]
		if i == 8 {
			v = (v << 8) | uint64(b)
			return int64(v), i + 1, nil
		}
		v = (v << 7) | uint64(b&0x7f)
		if b&0x80 == 0 {
			return int64(v), i + 1, nil
		}
	}
	return 0, 0, errors.Wrapf(ErrTruncatedVarint, "at offset %d", offset)
}
