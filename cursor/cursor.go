// Package cursor implements a stateful, resumable B-tree table cursor:
// it descends interior pages and emits leaf-page rows in key order, one
// Next call at a time, without ever materializing the whole table.
package cursor

import (
	"context"

	"github.com/pkg/errors"

	sf "sqlitefile"
	"sqlitefile/btreeio"
	"sqlitefile/pager"
)

type parentFrame struct {
	pageID  sf.PageID
	idxCell uint16
}

// Cursor walks a table B-tree rooted at a given page, depth-first,
// visiting interior cells in order and emitting one Payload per leaf
// cell. A Cursor is not safe for concurrent use.
type Cursor struct {
	pager       pager.Pager
	usableSize  int
	rootPageID  sf.PageID
	currentID   sf.PageID
	currentPage *pager.Page
	idxCell     uint16
	parents     []parentFrame
	done        bool
}

// New creates a cursor over the table B-tree rooted at rootPage.
func New(ctx context.Context, rootPage sf.PageID, p pager.Pager, usableSize int) (*Cursor, error) {
	page, err := p.GetPage(ctx, rootPage)
	if err != nil {
		return nil, err
	}
	return &Cursor{
		pager:       p,
		usableSize:  usableSize,
		rootPageID:  rootPage,
		currentID:   rootPage,
		currentPage: page,
	}, nil
}

// Close releases the cursor's current page borrow. Safe to call more
// than once.
func (c *Cursor) Close() {
	if c.currentPage != nil {
		c.currentPage.Release()
		c.currentPage = nil
	}
}

// Next advances to the next row and returns its payload. It returns
// (nil, nil) once the traversal is exhausted; every call after that
// also returns (nil, nil) without touching the pager again.
func (c *Cursor) Next(ctx context.Context) (*Payload, error) {
	if c.done {
		return nil, nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, sf.WrapPager(err, "cursor next cancelled")
		}

		header, err := btreeio.ParsePageHeader(c.currentPage.Bytes(), c.currentID == 1)
		if err != nil {
			return nil, err
		}

		switch {
		case !header.IsLeaf() && c.idxCell == header.NCells:
			c.idxCell++
			if err := c.moveToChild(ctx, header.RightPageID); err != nil {
				return nil, err
			}

		case c.idxCell >= header.NCells:
			ok, err := c.backToParent(ctx)
			if err != nil {
				return nil, err
			}
			if !ok {
				c.done = true
				c.Close()
				return nil, nil
			}

		case header.IsLeaf():
			cellOffset, err := header.CellPointer(c.currentPage.Bytes(), c.idxCell)
			if err != nil {
				return nil, err
			}
			cell, err := btreeio.ParseLeafTableCell(c.currentPage.Bytes(), cellOffset, c.usableSize)
			if err != nil {
				return nil, errors.Wrap(err, "parse leaf table cell")
			}
			c.idxCell++

			// Pin the leaf page independently of the cursor's own
			// traversal handle: the caller may hold this Payload across
			// further Next calls, which move the cursor (and may
			// release its own handle) onto other pages.
			payloadPage, err := c.pager.GetPage(ctx, c.currentID)
			if err != nil {
				return nil, err
			}
			return newPayload(c.pager, payloadPage, cell, c.usableSize), nil

		default:
			cellOffset, err := header.CellPointer(c.currentPage.Bytes(), c.idxCell)
			if err != nil {
				return nil, err
			}
			cell, err := btreeio.ParseInteriorTableCell(c.currentPage.Bytes(), cellOffset)
			if err != nil {
				return nil, errors.Wrap(err, "parse interior table cell")
			}
			if err := c.moveToChild(ctx, cell.ChildPageID); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Cursor) moveToChild(ctx context.Context, childID sf.PageID) error {
	page, err := c.pager.GetPage(ctx, childID)
	if err != nil {
		return err
	}
	c.parents = append(c.parents, parentFrame{pageID: c.currentID, idxCell: c.idxCell})
	c.currentPage.Release()
	c.currentPage = page
	c.currentID = childID
	c.idxCell = 0
	return nil
}

func (c *Cursor) backToParent(ctx context.Context) (bool, error) {
	if len(c.parents) == 0 {
		return false, nil
	}
	frame := c.parents[len(c.parents)-1]
	c.parents = c.parents[:len(c.parents)-1]

	page, err := c.pager.GetPage(ctx, frame.pageID)
	if err != nil {
		return false, err
	}
	c.currentPage.Release()
	c.currentPage = page
	c.currentID = frame.pageID
	c.idxCell = frame.idxCell + 1
	return true, nil
}
