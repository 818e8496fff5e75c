// Package schema ties the cursor, record, and sqlparse packages
// together to answer the one question none of them answer alone: what
// tables does this database have, and what are their columns? It is a
// supplemented feature, not named by the distilled reader spec, but a
// natural consequence of implementing it completely — nothing else in
// this module can find a table's root page without walking
// sqlite_schema by hand.
package schema

import (
	"context"

	"github.com/pkg/errors"

	sf "sqlitefile"
	"sqlitefile/cursor"
	"sqlitefile/pager"
	"sqlitefile/record"
	"sqlitefile/sqlparse"
)

// schemaRootPage is sqlite_schema's (formerly sqlite_master's) root
// page — always page 1, by file-format convention.
const schemaRootPage = sf.PageID(1)

// TableInfo describes one table found in sqlite_schema.
type TableInfo struct {
	Name     []byte
	RootPage sf.PageID
	Columns  []sqlparse.ColumnDef
}

// Catalog is the set of tables a database declares.
type Catalog struct {
	Tables []TableInfo
}

// Lookup finds a table by name. Name comparison is byte-exact;
// identifier case-folding is out of scope, matching sqlparse's own
// treatment of table names.
func (c *Catalog) Lookup(name []byte) (*TableInfo, bool) {
	for i := range c.Tables {
		if string(c.Tables[i].Name) == string(name) {
			return &c.Tables[i], true
		}
	}
	return nil, false
}

// Load walks sqlite_schema and returns every table it declares, with
// its CREATE TABLE statement already parsed into column definitions.
func Load(ctx context.Context, p pager.Pager, usableSize int) (*Catalog, error) {
	cur, err := cursor.New(ctx, schemaRootPage, p, usableSize)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite_schema cursor")
	}
	defer cur.Close()

	var tables []TableInfo
	for {
		payload, err := cur.Next(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "walk sqlite_schema")
		}
		if payload == nil {
			break
		}

		row, err := reassemble(ctx, payload)
		payload.Release()
		if err != nil {
			return nil, errors.Wrap(err, "load sqlite_schema row")
		}

		rec, err := record.DecodeRecord(row)
		if err != nil {
			return nil, errors.Wrap(err, "decode sqlite_schema row")
		}

		// sqlite_schema columns, in order: type, name, tbl_name,
		// rootpage, sql.
		typeVal := rec.Column(0)
		if typeVal.Type != record.Text || string(typeVal.Bytes) != "table" {
			continue
		}
		nameVal := rec.Column(1)
		rootVal := rec.Column(3)
		sqlVal := rec.Column(4)

		if rootVal.Type != record.Integer {
			sf.Log.Warnf("schema: table %q has non-integer rootpage, skipping", nameVal.Bytes)
			continue
		}
		if sqlVal.Type != record.Text {
			sf.Log.Warnf("schema: table %q has no sql text, skipping", nameVal.Bytes)
			continue
		}

		_, createTable, err := sqlparse.ParseCreateTable(sqlVal.Bytes)
		if err != nil {
			return nil, errors.Wrapf(err, "parse schema sql for table %q", nameVal.Bytes)
		}

		tables = append(tables, TableInfo{
			Name:     append([]byte(nil), nameVal.Bytes...),
			RootPage: sf.PageID(rootVal.Int),
			Columns:  createTable.Columns,
		})
	}

	return &Catalog{Tables: tables}, nil
}

// reassemble copies a payload's entire contents into one contiguous
// buffer, spanning the local/overflow split transparently.
func reassemble(ctx context.Context, payload *cursor.Payload) ([]byte, error) {
	buf := make([]byte, payload.Size())
	n, err := payload.Load(ctx, 0, buf)
	if err != nil {
		return nil, err
	}
	if uint32(n) != payload.Size() {
		return nil, errors.New("short payload load")
	}
	return buf, nil
}
