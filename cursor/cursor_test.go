package cursor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sf "sqlitefile"
	"sqlitefile/pager"
)

const testPageSize = 512

// encodeVarint is a SQLite varint encoder for building synthetic page
// images, valid for values in [0, 2^56) (it has no 9-byte form);
// production decoding lives in btreeio.ReadVarint.
func encodeVarint(v int64) []byte {
	u := uint64(v)
	var groups []byte
	tmp := u
	for {
		groups = append(groups, byte(tmp&0x7f))
		tmp >>= 7
		if tmp == 0 {
			break
		}
	}
	n := len(groups)
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		g := groups[n-1-i]
		if i != n-1 {
			g |= 0x80
		}
		buf[i] = g
	}
	return buf
}

func encodeLeafCellLocal(rowKey int64, payload []byte) []byte {
	cell := encodeVarint(int64(len(payload)))
	cell = append(cell, encodeVarint(rowKey)...)
	cell = append(cell, payload...)
	return cell
}

func encodeLeafCellWithOverflow(totalSize, rowKey int64, local []byte, overflowPage sf.PageID) []byte {
	cell := encodeVarint(totalSize)
	cell = append(cell, encodeVarint(rowKey)...)
	cell = append(cell, local...)
	var ptr [4]byte
	ptr[0] = byte(overflowPage >> 24)
	ptr[1] = byte(overflowPage >> 16)
	ptr[2] = byte(overflowPage >> 8)
	ptr[3] = byte(overflowPage)
	cell = append(cell, ptr[:]...)
	return cell
}

// writeLeafPage lays out cells back-to-back starting just after the
// cell pointer array; real SQLite grows the content area from the end
// of the page, but nothing this reader touches depends on that.
func writeLeafPage(pageSize int, cells [][]byte) []byte {
	buf := make([]byte, pageSize)
	buf[0] = 0x0d // leaf table page
	ncells := uint16(len(cells))
	buf[3] = byte(ncells >> 8)
	buf[4] = byte(ncells)

	pointerArrayOff := 8
	contentOff := pointerArrayOff + 2*len(cells)
	for i, cell := range cells {
		ptrOff := pointerArrayOff + 2*i
		buf[ptrOff] = byte(contentOff >> 8)
		buf[ptrOff+1] = byte(contentOff)
		copy(buf[contentOff:], cell)
		contentOff += len(cell)
	}
	return buf
}

func encodeInteriorCell(childPageID sf.PageID, key int64) []byte {
	var buf [4]byte
	buf[0] = byte(childPageID >> 24)
	buf[1] = byte(childPageID >> 16)
	buf[2] = byte(childPageID >> 8)
	buf[3] = byte(childPageID)
	cell := append(buf[:], encodeVarint(key)...)
	return cell
}

func writeInteriorPage(pageSize int, cells [][]byte, rightPageID sf.PageID) []byte {
	buf := make([]byte, pageSize)
	buf[0] = 0x05 // interior table page
	ncells := uint16(len(cells))
	buf[3] = byte(ncells >> 8)
	buf[4] = byte(ncells)
	buf[8] = byte(rightPageID >> 24)
	buf[9] = byte(rightPageID >> 16)
	buf[10] = byte(rightPageID >> 8)
	buf[11] = byte(rightPageID)

	pointerArrayOff := 12
	contentOff := pointerArrayOff + 2*len(cells)
	for i, cell := range cells {
		ptrOff := pointerArrayOff + 2*i
		buf[ptrOff] = byte(contentOff >> 8)
		buf[ptrOff+1] = byte(contentOff)
		copy(buf[contentOff:], cell)
		contentOff += len(cell)
	}
	return buf
}

func TestCursorSingleLeafPage(t *testing.T) {
	ctx := context.Background()
	cells := [][]byte{
		encodeLeafCellLocal(0, []byte{2, 8}),
		encodeLeafCellLocal(1, []byte{2, 9}),
		encodeLeafCellLocal(2, []byte{2, 1, 2}),
	}
	mp := pager.NewMemPager(testPageSize)
	mp.SetPage(2, writeLeafPage(testPageSize, cells))

	c, err := New(ctx, 2, mp, testPageSize)
	require.NoError(t, err)

	want := [][]byte{{2, 8}, {2, 9}, {2, 1, 2}}
	for _, w := range want {
		p, err := c.Next(ctx)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, w, p.LocalBytes())
		assert.Equal(t, uint32(len(w)), p.Size())
		p.Release()
	}

	p, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	// Idempotent once exhausted.
	p, err = c.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestCursorEmptyLeafPage(t *testing.T) {
	ctx := context.Background()
	mp := pager.NewMemPager(testPageSize)
	mp.SetPage(2, writeLeafPage(testPageSize, nil))

	c, err := New(ctx, 2, mp, testPageSize)
	require.NoError(t, err)

	p, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestCursorMultiLevelTree(t *testing.T) {
	ctx := context.Background()
	mp := pager.NewMemPager(testPageSize)

	leftCells := [][]byte{
		encodeLeafCellLocal(0, []byte{1, 0, 0}),
		encodeLeafCellLocal(1, []byte{1, 0, 1}),
	}
	rightCells := [][]byte{
		encodeLeafCellLocal(2, []byte{1, 0, 2}),
		encodeLeafCellLocal(3, []byte{1, 0, 3}),
	}
	mp.SetPage(11, writeLeafPage(testPageSize, leftCells))
	mp.SetPage(12, writeLeafPage(testPageSize, rightCells))

	rootCells := [][]byte{encodeInteriorCell(11, 1)}
	mp.SetPage(10, writeInteriorPage(testPageSize, rootCells, 12))

	c, err := New(ctx, 10, mp, testPageSize)
	require.NoError(t, err)

	var got [][]byte
	for {
		p, err := c.Next(ctx)
		require.NoError(t, err)
		if p == nil {
			break
		}
		got = append(got, append([]byte(nil), p.LocalBytes()...))
		p.Release()
	}

	want := [][]byte{{1, 0, 0}, {1, 0, 1}, {1, 0, 2}, {1, 0, 3}}
	assert.Equal(t, want, got)
}

func TestCursorOverflowPayload(t *testing.T) {
	ctx := context.Background()
	mp := pager.NewMemPager(testPageSize)

	const totalSize = 2000
	const localSize = 476 // per the local/overflow split formula at usableSize=512
	full := make([]byte, totalSize)
	for i := range full {
		full[i] = byte(i % 256)
	}

	cell := encodeLeafCellWithOverflow(totalSize, 0, full[:localSize], 21)
	mp.SetPage(20, writeLeafPage(testPageSize, [][]byte{cell}))

	// 3 overflow pages of 508 payload bytes each (512 usable - 4 link bytes).
	const perPage = testPageSize - 4
	writeOverflow := func(id sf.PageID, payload []byte, next sf.PageID) {
		buf := make([]byte, testPageSize)
		buf[0] = byte(next >> 24)
		buf[1] = byte(next >> 16)
		buf[2] = byte(next >> 8)
		buf[3] = byte(next)
		copy(buf[4:], payload)
		mp.SetPage(id, buf)
	}
	writeOverflow(21, full[localSize:localSize+perPage], 22)
	writeOverflow(22, full[localSize+perPage:localSize+2*perPage], 23)
	writeOverflow(23, full[localSize+2*perPage:], 0)

	c, err := New(ctx, 20, mp, testPageSize)
	require.NoError(t, err)

	p, err := c.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	defer p.Release()

	assert.Equal(t, uint32(totalSize), p.Size())
	assert.Equal(t, localSize, len(p.LocalBytes()))
	assert.Equal(t, full[:localSize], p.LocalBytes())

	dst := make([]byte, totalSize)
	n, err := p.Load(ctx, 0, dst)
	require.NoError(t, err)
	assert.Equal(t, totalSize, n)
	assert.Equal(t, full, dst)

	// Partial load starting mid-overflow-chain.
	partial := make([]byte, 100)
	n, err = p.Load(ctx, 600, partial)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, full[600:700], partial)

	_, err = p.Load(ctx, totalSize, dst)
	assert.ErrorIs(t, err, sf.ErrOffsetOutOfRange)

	_, err = p.Load(ctx, 0, p.LocalBytes())
	assert.ErrorIs(t, err, sf.ErrAliasedBuffer)
}
