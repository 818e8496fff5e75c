// Package sqlitefile implements a read-only reader for SQLite-format
// database files: a B-tree table cursor that reassembles row payloads
// spilling across overflow page chains, and a hand-written SQL
// mini-parser for CREATE TABLE and SELECT statements.
//
// The core layers live in sibling packages:
//
//	pager     - maps page ids to pinned page buffers
//	btreeio   - B-tree page header and cell parsing, overflow pages, varints
//	record    - decodes a record payload into typed values
//	cursor    - the table B-tree cursor and payload assembler
//	token     - byte-level SQL tokenizer
//	sqlparse  - CREATE TABLE / SELECT recursive-descent parser
//	schema    - walks sqlite_schema and builds a table catalog
//
// This package holds the ambient stack shared by all of them: error
// kinds, configuration, and logging.
package sqlitefile

// PageID identifies a database page. Pages are 1-based in the file
// format; the core treats PageID as an opaque handle supplied by a
// pager.Pager.
type PageID uint32
