// Package sqlparse implements a hand-rolled recursive-descent parser
// for the two statement forms this reader needs to understand:
// CREATE TABLE (to learn a table's columns) and SELECT ... FROM ...
// WHERE (to describe a query against one). It is ported from
// original_source/src/parser.rs, kept deliberately minimal: no joins,
// no expression precedence beyond a single right-leaning chain, no
// non-ASCII identifiers.
package sqlparse

// DataType is a column's declared SQLite type affinity class, or
// DataTypeNull when the column was declared with the literal type
// name NULL — distinct from DataTypeNone, which means no type name
// was given at all.
type DataType int

const (
	DataTypeNone DataType = iota
	DataTypeNull
	DataTypeInteger
	DataTypeReal
	DataTypeText
	DataTypeBlob
)

// ColumnDef is one column of a CREATE TABLE statement.
type ColumnDef struct {
	Name       []byte
	DataType   DataType
	PrimaryKey bool
}

// CreateTable is a parsed CREATE TABLE statement.
type CreateTable struct {
	TableName []byte
	Columns   []ColumnDef
}

// ResultColumnKind distinguishes "*" from a named column in a SELECT
// list.
type ResultColumnKind int

const (
	ResultColumnAll ResultColumnKind = iota
	ResultColumnName
)

// ResultColumn is one entry of a SELECT statement's column list.
type ResultColumn struct {
	Kind ResultColumnKind
	Name []byte // set when Kind == ResultColumnName
}

// BinaryOperator is a WHERE-clause comparison operator.
type BinaryOperator int

const (
	OpEq BinaryOperator = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
)

// ExprKind distinguishes the three forms an Expr can take.
type ExprKind int

const (
	ExprColumn ExprKind = iota
	ExprBinaryOperator
	ExprLiteralInteger
)

// Expr is a WHERE-clause expression. The parser only ever produces a
// single right-leaning chain of comparisons, never a real precedence
// tree: "a = b = c" parses as a = (b = c).
type Expr struct {
	Kind ExprKind

	// ExprColumn
	Column []byte

	// ExprBinaryOperator
	Operator BinaryOperator
	Left     *Expr
	Right    *Expr

	// ExprLiteralInteger
	Literal int64
}

// Select is a parsed SELECT ... FROM ... [WHERE ...] statement.
type Select struct {
	TableName []byte
	Columns   []ResultColumn
	Selection *Expr // nil when there is no WHERE clause
}
