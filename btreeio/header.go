package btreeio

import (
	"encoding/binary"

	"github.com/pkg/errors"

	sf "sqlitefile"
)

// Page type bytes, per the SQLite file format.
const (
	PageTypeInteriorIndex = 0x02
	PageTypeInteriorTable = 0x05
	PageTypeLeafIndex     = 0x0a
	PageTypeLeafTable     = 0x0d
)

// DatabaseHeaderSize is the length of the file-format's leading database
// header, which precedes the root page's own B-tree page header.
const DatabaseHeaderSize = 100

// leafHeaderSize and interiorHeaderSize are the lengths of a B-tree page
// header: 8 bytes, plus 4 more for the rightmost child pointer on
// interior pages.
const leafHeaderSize = 8
const interiorHeaderSize = 12

// PageHeader is a parsed B-tree page header.
type PageHeader struct {
	PageType            byte
	FirstFreeblock      uint16
	NCells               uint16
	CellContentStart    uint16
	FragmentedFreeBytes byte
	RightPageID         sf.PageID // only valid when !IsLeaf()

	// base is the byte offset within the page buffer where this header
	// starts: 0 normally, DatabaseHeaderSize on the root page.
	base int
}

// IsLeaf reports whether this is a leaf table page (0x0d). Index pages
// are out of scope for this reader.
func (h *PageHeader) IsLeaf() bool { return h.PageType == PageTypeLeafTable }

// IsInteriorTable reports whether this is an interior table page (0x05).
func (h *PageHeader) IsInteriorTable() bool { return h.PageType == PageTypeInteriorTable }

// CellPointerArrayOffset returns the byte offset, within the page
// buffer, of the first 2-byte cell pointer.
func (h *PageHeader) CellPointerArrayOffset() int {
	if h.IsLeaf() {
		return h.base + leafHeaderSize
	}
	return h.base + interiorHeaderSize
}

// ParsePageHeader parses the B-tree page header embedded in buf. rootPage
// must be true iff this page is page 1, in which case the header is
// offset by the 100-byte database header.
func ParsePageHeader(buf []byte, rootPage bool) (*PageHeader, error) {
	base := 0
	if rootPage {
		base = DatabaseHeaderSize
	}
	if len(buf) < base+leafHeaderSize {
		return nil, errors.Wrap(sf.ErrPageParse, "page too small for header")
	}

	h := &PageHeader{
		PageType:            buf[base],
		FirstFreeblock:      binary.BigEndian.Uint16(buf[base+1 : base+3]),
		NCells:               binary.BigEndian.Uint16(buf[base+3 : base+5]),
		CellContentStart:    binary.BigEndian.Uint16(buf[base+5 : base+7]),
		FragmentedFreeBytes: buf[base+7],
		base:                base,
	}

	switch h.PageType {
	case PageTypeLeafTable, PageTypeLeafIndex:
		// no rightmost pointer
	case PageTypeInteriorTable, PageTypeInteriorIndex:
		if len(buf) < base+interiorHeaderSize {
			return nil, errors.Wrap(sf.ErrPageParse, "page too small for interior header")
		}
		h.RightPageID = sf.PageID(binary.BigEndian.Uint32(buf[base+8 : base+12]))
	default:
		return nil, errors.Wrapf(sf.ErrPageParse, "unknown page type 0x%02x", h.PageType)
	}

	return h, nil
}

// CellPointer reads the idx-th cell's byte offset from the cell pointer
// array. idx must be in [0, NCells).
func (h *PageHeader) CellPointer(buf []byte, idx uint16) (int, error) {
	off := h.CellPointerArrayOffset() + int(idx)*2
	if off+2 > len(buf) {
		return 0, errors.Wrapf(sf.ErrPageParse, "cell pointer %d out of range", idx)
	}
	return int(binary.BigEndian.Uint16(buf[off : off+2])), nil
}
