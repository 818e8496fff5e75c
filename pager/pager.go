// Package pager maps page ids to pinned, fixed-size page buffers. It is
// the "external collaborator" the cursor and payload assembler are
// specified against: they never touch a file or a byte slice directly,
// only a Pager.
package pager

import (
	"container/list"
	"context"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	sf "sqlitefile"
)

// Page is an immutable, fixed-length view of one database page, borrowed
// from a Pager. While a borrow is live the page is pinned; Release may
// allow the pager to reclaim it. Callers must call Release exactly once
// per Page returned by GetPage.
type Page struct {
	id      sf.PageID
	buf     []byte
	release func()
	once    sync.Once
}

// ID returns the page's id.
func (p *Page) ID() sf.PageID { return p.id }

// Bytes returns the page's immutable byte contents. The core never
// writes through this slice.
func (p *Page) Bytes() []byte { return p.buf }

// Release returns the borrow to the pager. Safe to call more than once;
// only the first call has an effect.
func (p *Page) Release() {
	p.once.Do(func() {
		if p.release != nil {
			p.release()
		}
	})
}

// Pager maps PageID to pinned page buffers.
type Pager interface {
	// GetPage returns a pinned borrow of the given page. The caller must
	// call Page.Release when done with it.
	GetPage(ctx context.Context, id sf.PageID) (*Page, error)

	// PageSize is the file's fixed page size in bytes.
	PageSize() int

	Close() error
}

// FilePager is a Pager backed by an *os.File, with a bounded LRU of
// decoded page buffers and a semaphore limiting in-flight reads.
type FilePager struct {
	file     *os.File
	pageSize int
	cfg      *sf.Config
	sem      chan struct{}

	mu       sync.Mutex
	lru      *list.List // of *cacheEntry, front = most recently used
	byID     map[sf.PageID]*list.Element
	refcount map[sf.PageID]int
}

type cacheEntry struct {
	id  sf.PageID
	buf []byte
}

// Open opens filePath and builds a FilePager for it. pageSize must
// already be known (the 100-byte database header that carries it is
// outside this package's scope — callers read it once with
// ReadPageSizeFromHeader below, or already know it).
func Open(filePath string, pageSize int, cfg *sf.Config) (*FilePager, error) {
	if cfg == nil {
		cfg = sf.DefaultConfig()
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, sf.WrapPager(err, "open database file")
	}
	return &FilePager{
		file:     f,
		pageSize: pageSize,
		cfg:      cfg,
		sem:      make(chan struct{}, maxInt(cfg.MaxConcurrency, 1)),
		lru:      list.New(),
		byID:     make(map[sf.PageID]*list.Element),
		refcount: make(map[sf.PageID]int),
	}, nil
}

// ReadPageSizeFromHeader reads the page size out of a SQLite database
// file's 100-byte header without constructing a Pager.
func ReadPageSizeFromHeader(filePath string) (int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, sf.WrapPager(err, "open database file")
	}
	defer f.Close()

	header := make([]byte, 100)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, sf.WrapPager(err, "read database header")
	}
	if string(header[0:15]) != "SQLite format 3" {
		return 0, errors.Wrap(sf.ErrPageParse, "bad magic number")
	}
	size := int(header[16])<<8 | int(header[17])
	if size == 1 {
		// 65536 is encoded as 1 since it overflows a big-endian uint16.
		size = 65536
	}
	return size, nil
}

func (p *FilePager) PageSize() int { return p.pageSize }

func (p *FilePager) Close() error {
	if err := p.file.Close(); err != nil {
		return sf.WrapPager(err, "close database file")
	}
	return nil
}

func (p *FilePager) GetPage(ctx context.Context, id sf.PageID) (*Page, error) {
	if id == 0 {
		return nil, errors.Wrap(sf.ErrPageParse, "page id 0 is not valid")
	}

	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-ctx.Done():
		return nil, sf.WrapPager(ctx.Err(), "get page cancelled")
	}
	if err := ctx.Err(); err != nil {
		return nil, sf.WrapPager(err, "get page cancelled")
	}

	p.mu.Lock()
	if elem, ok := p.byID[id]; ok {
		p.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		p.refcount[id]++
		p.mu.Unlock()
		sf.Log.Debugf("pager: hit page %d", id)
		return p.pin(entry), nil
	}
	p.mu.Unlock()

	buf := make([]byte, p.pageSize)
	offset := int64(id-1) * int64(p.pageSize)
	n, err := p.file.ReadAt(buf, offset)
	if err != nil && !(err == io.EOF && n == p.pageSize) {
		return nil, sf.WrapPager(errors.Wrapf(err, "read page %d at offset %d", id, offset), "pager read")
	}
	if n != p.pageSize {
		return nil, sf.WrapPager(errors.Errorf("short read: got %d bytes, want %d", n, p.pageSize), "pager read")
	}

	p.mu.Lock()
	entry := &cacheEntry{id: id, buf: buf}
	elem := p.lru.PushFront(entry)
	p.byID[id] = elem
	p.refcount[id] = 1
	p.evictUnpinnedLocked()
	p.mu.Unlock()

	sf.Log.Debugf("pager: fault page %d", id)
	return p.pin(entry), nil
}

func (p *FilePager) pin(entry *cacheEntry) *Page {
	id := entry.id
	return &Page{
		id:  id,
		buf: entry.buf,
		release: func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.refcount[id] > 0 {
				p.refcount[id]--
			}
			p.evictUnpinnedLocked()
		},
	}
}

// evictUnpinnedLocked drops least-recently-used, unpinned entries until
// the cache is back within PageCacheSize. Callers must hold p.mu.
func (p *FilePager) evictUnpinnedLocked() {
	for p.lru.Len() > maxInt(p.cfg.PageCacheSize, 1) {
		e := p.lru.Back()
		var victim *list.Element
		for cand := e; cand != nil; cand = cand.Prev() {
			entry := cand.Value.(*cacheEntry)
			if p.refcount[entry.id] == 0 {
				victim = cand
				break
			}
		}
		if victim == nil {
			return // everything still pinned
		}
		entry := victim.Value.(*cacheEntry)
		p.lru.Remove(victim)
		delete(p.byID, entry.id)
		delete(p.refcount, entry.id)
		sf.Log.Debugf("pager: evict page %d", entry.id)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
