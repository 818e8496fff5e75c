package btreeio

import (
	"encoding/binary"

	"github.com/pkg/errors"

	sf "sqlitefile"
)

// OverflowSegment is the part of an overflow page's content the payload
// assembler cares about: the bytes it contributes, and the next page in
// the chain (nil at the tail).
type OverflowSegment struct {
	Payload []byte
	Next    *sf.PageID
}

// ParseOverflowPage parses an overflow page buffer: the first 4 bytes
// are the next page id in the chain (0 means none), and the rest, up to
// usableSize-4, is payload content.
func ParseOverflowPage(buf []byte, usableSize int) (*OverflowSegment, error) {
	if len(buf) < 4 {
		return nil, errors.Wrap(sf.ErrPageParse, "overflow page too small for link")
	}
	next := binary.BigEndian.Uint32(buf[0:4])

	end := usableSize - 4
	if end > len(buf)-4 {
		end = len(buf) - 4
	}
	if end < 0 {
		end = 0
	}

	seg := &OverflowSegment{Payload: buf[4 : 4+end]}
	if next != 0 {
		id := sf.PageID(next)
		seg.Next = &id
	}
	return seg, nil
}
