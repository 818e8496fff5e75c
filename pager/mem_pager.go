package pager

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	sf "sqlitefile"
)

// MemPager is a Pager backed by in-memory page buffers, keyed by page
// id. It is used by tests that build synthetic B-tree page images
// directly, and by callers embedding an in-memory database image.
type MemPager struct {
	pageSize int

	mu       sync.Mutex
	pages    map[sf.PageID][]byte
	refcount map[sf.PageID]int
}

// NewMemPager creates an empty MemPager with the given page size. Use
// SetPage to populate it.
func NewMemPager(pageSize int) *MemPager {
	return &MemPager{
		pageSize: pageSize,
		pages:    make(map[sf.PageID][]byte),
		refcount: make(map[sf.PageID]int),
	}
}

// NewMemPagerFromImage slices a full database file image into
// fixed-size pages.
func NewMemPagerFromImage(image []byte, pageSize int) *MemPager {
	mp := NewMemPager(pageSize)
	n := sf.PageID(len(image) / pageSize)
	for id := sf.PageID(1); id <= n; id++ {
		start := int(id-1) * pageSize
		mp.SetPage(id, image[start:start+pageSize])
	}
	return mp
}

// SetPage installs (or replaces) the buffer for a page id. buf's length
// must equal the pager's page size.
func (m *MemPager) SetPage(id sf.PageID, buf []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[id] = buf
}

func (m *MemPager) PageSize() int { return m.pageSize }

func (m *MemPager) Close() error { return nil }

func (m *MemPager) GetPage(ctx context.Context, id sf.PageID) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, sf.WrapPager(err, "get page cancelled")
	}

	m.mu.Lock()
	buf, ok := m.pages[id]
	if !ok {
		m.mu.Unlock()
		return nil, sf.WrapPager(errors.Errorf("no such page %d", id), "mem pager")
	}
	m.refcount[id]++
	m.mu.Unlock()

	return &Page{
		id:  id,
		buf: buf,
		release: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.refcount[id] > 0 {
				m.refcount[id]--
			}
		},
	}, nil
}
