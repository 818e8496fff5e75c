package sqlparse

import (
	"bytes"

	tkn "sqlitefile/token"
)

func nextTok(input []byte, pos int) (int, tkn.Token, bool) {
	n, tok, ok := tkn.Next(input[pos:])
	if !ok {
		return pos, tkn.Token{}, false
	}
	return pos + n, tok, true
}

func lookupDataType(text []byte) (DataType, error) {
	switch {
	case bytes.EqualFold(text, []byte("integer")):
		return DataTypeInteger, nil
	case bytes.EqualFold(text, []byte("real")):
		return DataTypeReal, nil
	case bytes.EqualFold(text, []byte("text")):
		return DataTypeText, nil
	case bytes.EqualFold(text, []byte("blob")):
		return DataTypeBlob, nil
	default:
		return DataTypeNone, syntaxErr("unknown data type")
	}
}

// ParseCreateTable parses a CREATE TABLE statement at the start of
// input: CREATE TABLE name (col [type|NULL] [PRIMARY KEY], ...). It
// returns the number of bytes consumed — any trailing bytes (a
// semicolon, more statements) are left unconsumed rather than treated
// as an error.
func ParseCreateTable(input []byte) (int, *CreateTable, error) {
	pos := 0
	var tok tkn.Token
	var ok bool

	if pos, tok, ok = nextTok(input, pos); !ok || tok.Kind != tkn.Create {
		return 0, nil, syntaxErr("no create")
	}
	if pos, tok, ok = nextTok(input, pos); !ok || tok.Kind != tkn.Table {
		return 0, nil, syntaxErr("no table")
	}
	if pos, tok, ok = nextTok(input, pos); !ok || tok.Kind != tkn.Identifier {
		return 0, nil, syntaxErr("no table_name")
	}
	tableName := tok.Text
	if pos, tok, ok = nextTok(input, pos); !ok || tok.Kind != tkn.LeftParen {
		return 0, nil, syntaxErr("no left paren")
	}

	var columns []ColumnDef
	for {
		var nameTok tkn.Token
		if pos, nameTok, ok = nextTok(input, pos); !ok || nameTok.Kind != tkn.Identifier {
			return 0, nil, syntaxErr("no column name")
		}
		name := nameTok.Text

		if pos, tok, ok = nextTok(input, pos); !ok {
			return 0, nil, syntaxErr("no right paren")
		}

		dataType := DataTypeNone
		switch tok.Kind {
		case tkn.Null:
			dataType = DataTypeNull
			if pos, tok, ok = nextTok(input, pos); !ok {
				return 0, nil, syntaxErr("no right paren")
			}
		case tkn.Identifier:
			dt, err := lookupDataType(tok.Text)
			if err != nil {
				return 0, nil, err
			}
			dataType = dt
			if pos, tok, ok = nextTok(input, pos); !ok {
				return 0, nil, syntaxErr("no right paren")
			}
		}

		primaryKey := false
		if tok.Kind == tkn.Primary {
			var keyTok tkn.Token
			var keyOk bool
			var keyPos int
			if keyPos, keyTok, keyOk = nextTok(input, pos); !keyOk || keyTok.Kind != tkn.Key {
				return 0, nil, syntaxErr("no key")
			}
			pos = keyPos
			primaryKey = true
			if pos, tok, ok = nextTok(input, pos); !ok {
				return 0, nil, syntaxErr("no right paren")
			}
		}

		columns = append(columns, ColumnDef{Name: name, DataType: dataType, PrimaryKey: primaryKey})

		switch tok.Kind {
		case tkn.Comma:
			continue
		case tkn.RightParen:
			return pos, &CreateTable{TableName: tableName, Columns: columns}, nil
		default:
			return 0, nil, syntaxErr("no right paren")
		}
	}
}

func parseResultColumn(input []byte, pos int) (ResultColumn, int, error) {
	newPos, tok, ok := nextTok(input, pos)
	if !ok {
		return ResultColumn{}, 0, syntaxErr("no result column name")
	}
	switch tok.Kind {
	case tkn.Identifier:
		return ResultColumn{Kind: ResultColumnName, Name: tok.Text}, newPos, nil
	case tkn.Asterisk:
		return ResultColumn{Kind: ResultColumnAll}, newPos, nil
	default:
		return ResultColumn{}, 0, syntaxErr("no result column name")
	}
}

// ParseSelect parses a SELECT ... FROM ... [WHERE ...] statement at the
// start of input, returning the number of bytes consumed.
func ParseSelect(input []byte) (int, *Select, error) {
	pos := 0
	var tok tkn.Token
	var ok bool

	if pos, tok, ok = nextTok(input, pos); !ok || tok.Kind != tkn.Select {
		return 0, nil, syntaxErr("no select")
	}

	col, newPos, err := parseResultColumn(input, pos)
	if err != nil {
		return 0, nil, err
	}
	pos = newPos
	columns := []ResultColumn{col}

	for {
		if pos, tok, ok = nextTok(input, pos); !ok {
			return 0, nil, syntaxErr("no from")
		}
		if tok.Kind == tkn.Comma {
			col, newPos, err := parseResultColumn(input, pos)
			if err != nil {
				return 0, nil, err
			}
			pos = newPos
			columns = append(columns, col)
			continue
		}
		if tok.Kind == tkn.From {
			break
		}
		return 0, nil, syntaxErr("no from")
	}

	var tableNameTok tkn.Token
	if pos, tableNameTok, ok = nextTok(input, pos); !ok || tableNameTok.Kind != tkn.Identifier {
		return 0, nil, syntaxErr("no table_name")
	}
	tableName := tableNameTok.Text

	var selection *Expr
	if wherePos, whereTok, whereOk := nextTok(input, pos); whereOk && whereTok.Kind == tkn.Where {
		expr, newPos, err := parseExpr(input, wherePos)
		if err != nil {
			return 0, nil, err
		}
		selection = expr
		pos = newPos
	}

	return pos, &Select{TableName: tableName, Columns: columns, Selection: selection}, nil
}

// parseExpr parses a WHERE-clause expression: an operand, optionally
// followed by a comparison operator and a right-hand expression. A
// chain of operators parses right-recursively into a right-leaning
// tree rather than by precedence — the grammar has only one level of
// operators, so this never produces a surprising shape in practice.
func parseExpr(input []byte, pos int) (*Expr, int, error) {
	newPos, tok, ok := nextTok(input, pos)
	if !ok {
		return nil, 0, syntaxErr("no expr")
	}
	var left *Expr
	switch tok.Kind {
	case tkn.Identifier:
		left = &Expr{Kind: ExprColumn, Column: tok.Text}
	case tkn.Integer:
		left = &Expr{Kind: ExprLiteralInteger, Literal: tok.Int}
	default:
		return nil, 0, syntaxErr("no expr")
	}
	pos = newPos

	opPos, opTok, opOk := nextTok(input, pos)
	if !opOk {
		return left, pos, nil
	}
	var op BinaryOperator
	switch opTok.Kind {
	case tkn.Eq:
		op = OpEq
	case tkn.Ne:
		op = OpNe
	case tkn.Gt:
		op = OpGt
	case tkn.Ge:
		op = OpGe
	case tkn.Lt:
		op = OpLt
	case tkn.Le:
		op = OpLe
	default:
		return left, pos, nil
	}

	right, newPos2, err := parseExpr(input, opPos)
	if err != nil {
		return nil, 0, err
	}
	return &Expr{Kind: ExprBinaryOperator, Operator: op, Left: left, Right: right}, newPos2, nil
}
