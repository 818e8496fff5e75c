package btreeio

import (
	"encoding/binary"

	"github.com/pkg/errors"

	sf "sqlitefile"
)

// LeafCell is a parsed table leaf cell: a row's rowkey, its total
// payload size, the byte range inside the page buffer holding the local
// (in-page) prefix of the payload, and the head of the overflow chain if
// the payload does not fit locally.
type LeafCell struct {
	RowKey     int64
	Size       uint32
	LocalStart int
	LocalEnd   int
	Overflow   *sf.PageID
}

// InteriorCell is a parsed table interior cell: a child page id and the
// separator key used to route searches (unused by a pure in-order
// traversal, kept because the file format carries it).
type InteriorCell struct {
	ChildPageID sf.PageID
	Key         int64
}

// localPayloadSizes returns the usable-size-dependent split of a
// table-leaf payload of total size P into (local, overflow) byte counts,
// per the SQLite file format's overflow computation
// (https://www.sqlite.org/fileformat2.html#b_tree_pages).
func localPayloadSizes(usableSize int, p int) (local, overflow int) {
	maxLocal := usableSize - 35
	if p <= maxLocal {
		return p, 0
	}
	minLocal := ((usableSize-12)*32)/255 - 23
	k := minLocal + (p-minLocal)%(usableSize-4)
	local = k
	if k > maxLocal {
		local = minLocal
	}
	return local, p - local
}

// ParseLeafTableCell parses the table leaf cell at byte offset within
// buf (the full page buffer). usableSize is the page size minus the
// file-format's reserved tail, used to compute the in-page payload cap.
func ParseLeafTableCell(buf []byte, offset int, usableSize int) (*LeafCell, error) {
	if offset < 0 || offset >= len(buf) {
		return nil, errors.Wrapf(sf.ErrPageParse, "leaf cell offset %d out of range", offset)
	}

	size, n, err := ReadVarint(buf, offset)
	if err != nil {
		return nil, errors.Wrap(err, "read leaf cell payload size")
	}
	offset += n

	rowKey, n, err := ReadVarint(buf, offset)
	if err != nil {
		return nil, errors.Wrap(err, "read leaf cell rowkey")
	}
	offset += n

	if size < 0 {
		return nil, errors.Wrapf(sf.ErrPageParse, "negative payload size %d", size)
	}
	local, overflowBytes := localPayloadSizes(usableSize, int(size))

	localEnd := offset + local
	if localEnd > len(buf) {
		return nil, errors.Wrapf(sf.ErrPageParse, "local payload [%d,%d) exceeds page size %d", offset, localEnd, len(buf))
	}

	cell := &LeafCell{
		RowKey:     rowKey,
		Size:       uint32(size),
		LocalStart: offset,
		LocalEnd:   localEnd,
	}

	if overflowBytes > 0 {
		if localEnd+4 > len(buf) {
			return nil, errors.Wrap(sf.ErrPageParse, "missing overflow page pointer")
		}
		head := sf.PageID(binary.BigEndian.Uint32(buf[localEnd : localEnd+4]))
		cell.Overflow = &head
	}

	return cell, nil
}

// ParseInteriorTableCell parses the table interior cell at byte offset
// within buf: a 4-byte child page id followed by a varint rowkey.
func ParseInteriorTableCell(buf []byte, offset int) (*InteriorCell, error) {
	if offset < 0 || offset+4 > len(buf) {
		return nil, errors.Wrapf(sf.ErrPageParse, "interior cell offset %d out of range", offset)
	}
	child := sf.PageID(binary.BigEndian.Uint32(buf[offset : offset+4]))
	key, _, err := ReadVarint(buf, offset+4)
	if err != nil {
		return nil, errors.Wrap(err, "read interior cell key")
	}
	return &InteriorCell{ChildPageID: child, Key: key}, nil
}
