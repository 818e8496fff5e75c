package cursor

import (
	"context"

	"github.com/pkg/errors"

	sf "sqlitefile"
	"sqlitefile/btreeio"
	"sqlitefile/pager"
)

// Payload is a handle onto one row's bytes: a local, in-page prefix
// plus, for rows too large to fit on one page, the head of an overflow
// page chain. Callers must call Release when done with it.
type Payload struct {
	pager       pager.Pager
	page        *pager.Page
	localStart  int
	localEnd    int
	size        uint32
	overflow    *sf.PageID
	usableBytes int
}

func newPayload(p pager.Pager, page *pager.Page, cell *btreeio.LeafCell, usableSize int) *Payload {
	return &Payload{
		pager:       p,
		page:        page,
		localStart:  cell.LocalStart,
		localEnd:    cell.LocalEnd,
		size:        cell.Size,
		overflow:    cell.Overflow,
		usableBytes: usableSize,
	}
}

// Size is the row's total payload size, local bytes plus overflow.
func (pl *Payload) Size() uint32 { return pl.size }

// LocalBytes returns the in-page prefix of the payload. This may be
// shorter than Size if the row spills into overflow pages.
func (pl *Payload) LocalBytes() []byte {
	return pl.page.Bytes()[pl.localStart:pl.localEnd]
}

// Release returns the pinned leaf page to the pager. Safe to call more
// than once.
func (pl *Payload) Release() {
	pl.page.Release()
}

// Load copies payload bytes, starting at offset, into dst, walking the
// local prefix and then the overflow chain as needed. It returns the
// number of bytes copied, which is min(len(dst), Size()-offset).
//
// dst must not alias any pinned page buffer — in particular it must not
// be a slice returned by LocalBytes or by another in-flight Load/page
// borrow. A dst that overlaps this payload's leaf page, or an overflow
// page fetched during the call, returns ErrAliasedBuffer instead of
// silently corrupting the copy; overlap with other pinned pages is not
// detected.
func (pl *Payload) Load(ctx context.Context, offset uint32, dst []byte) (int, error) {
	if offset >= pl.size {
		return 0, errors.Wrapf(sf.ErrOffsetOutOfRange, "offset %d >= payload size %d", offset, pl.size)
	}
	if remaining := int(pl.size - offset); len(dst) > remaining {
		dst = dst[:remaining]
	}
	if sf.BuffersOverlap(dst, pl.page.Bytes()) {
		return 0, errors.Wrap(sf.ErrAliasedBuffer, "load destination aliases a pinned page")
	}

	local := pl.LocalBytes()
	var loaded int

	if int(offset) < len(local) {
		localOffset := int(offset)
		n := len(local) - localOffset
		if n > len(dst) {
			n = len(dst)
		}
		copy(dst[:n], local[localOffset:])
		loaded += n
		offset += uint32(n)
		dst = dst[n:]
	}

	cur := uint32(len(local))
	overflowID := pl.overflow
	for len(dst) > 0 && cur < pl.size {
		if overflowID == nil {
			return loaded, errors.Wrap(sf.ErrOverflowChainTruncated, "overflow chain ended before payload size reached")
		}
		page, err := pl.pager.GetPage(ctx, *overflowID)
		if err != nil {
			return loaded, err
		}
		if sf.BuffersOverlap(dst, page.Bytes()) {
			page.Release()
			return loaded, errors.Wrap(sf.ErrAliasedBuffer, "load destination aliases a pinned overflow page")
		}
		seg, err := btreeio.ParseOverflowPage(page.Bytes(), pl.usableBytes)
		if err != nil {
			page.Release()
			return loaded, err
		}

		if offset < cur+uint32(len(seg.Payload)) {
			localOffset := int(offset - cur)
			n := len(seg.Payload) - localOffset
			if n > len(dst) {
				n = len(dst)
			}
			copy(dst[:n], seg.Payload[localOffset:])
			loaded += n
			offset += uint32(n)
			dst = dst[n:]
		}
		cur += uint32(len(seg.Payload))
		overflowID = seg.Next
		page.Release()
	}

	return loaded, nil
}
