package sqlparse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateTable(t *testing.T) {
	input := []byte("create table foo (id integer primary key, name text, real real, blob blob, empty null, no_type)")
	n, got, err := ParseCreateTable(input)
	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.Equal(t, "foo", string(got.TableName))

	want := []ColumnDef{
		{Name: []byte("id"), DataType: DataTypeInteger, PrimaryKey: true},
		{Name: []byte("name"), DataType: DataTypeText, PrimaryKey: false},
		{Name: []byte("real"), DataType: DataTypeReal, PrimaryKey: false},
		{Name: []byte("blob"), DataType: DataTypeBlob, PrimaryKey: false},
		{Name: []byte("empty"), DataType: DataTypeNull, PrimaryKey: false},
		{Name: []byte("no_type"), DataType: DataTypeNone, PrimaryKey: false},
	}
	if diff := cmp.Diff(want, got.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCreateTableWithExtra(t *testing.T) {
	input := []byte("create table Foo (Id, Name)abc ")
	n, got, err := ParseCreateTable(input)
	require.NoError(t, err)
	assert.Equal(t, len(input)-4, n)
	assert.Equal(t, "Foo", string(got.TableName))

	want := []ColumnDef{
		{Name: []byte("Id"), DataType: DataTypeNone, PrimaryKey: false},
		{Name: []byte("Name"), DataType: DataTypeNone, PrimaryKey: false},
	}
	if diff := cmp.Diff(want, got.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCreateTableFailureCases(t *testing.T) {
	cases := []string{
		"create table foo (id, name ",         // no right paren
		"create table foo (id, name invalid)", // invalid data type
		"create table foo (id primary, name)", // primary without key
		"create table foo (id key, name)",     // key without primary
	}
	for _, in := range cases {
		_, _, err := ParseCreateTable([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestParseSelectAll(t *testing.T) {
	input := []byte("select * from foo")
	n, got, err := ParseSelect(input)
	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.Equal(t, "foo", string(got.TableName))
	assert.Equal(t, []ResultColumn{{Kind: ResultColumnAll}}, got.Columns)
}

func TestParseSelectColumns(t *testing.T) {
	input := []byte("select id,name,*,col from foo")
	n, got, err := ParseSelect(input)
	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.Equal(t, "foo", string(got.TableName))

	want := []ResultColumn{
		{Kind: ResultColumnName, Name: []byte("id")},
		{Kind: ResultColumnName, Name: []byte("name")},
		{Kind: ResultColumnAll},
		{Kind: ResultColumnName, Name: []byte("col")},
	}
	if diff := cmp.Diff(want, got.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSelectWhere(t *testing.T) {
	input := []byte("select * from foo where id = 5")
	n, got, err := ParseSelect(input)
	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.Equal(t, "foo", string(got.TableName))
	require.NotNil(t, got.Selection)

	want := &Expr{
		Kind:     ExprBinaryOperator,
		Operator: OpEq,
		Left:     &Expr{Kind: ExprColumn, Column: []byte("id")},
		Right:    &Expr{Kind: ExprLiteralInteger, Literal: 5},
	}
	if diff := cmp.Diff(want, got.Selection); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSelectNoTableName(t *testing.T) {
	_, _, err := ParseSelect([]byte("select col from "))
	assert.Error(t, err)
}
