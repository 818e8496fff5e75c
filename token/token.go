// Package token implements the hand-rolled lexer behind sqlparse: it
// turns a byte slice of SQL text into one keyword, punctuation,
// identifier, or integer-literal token at a time. There is no
// tokenizer in the example pack to port from a compiling reference, so
// this is grounded directly on the token set original_source/src/parser.rs
// consumes (Token::Create, Token::Identifier(&[u8]), ...); only ASCII
// input is recognized, matching the mini-parser's declared scope.
package token

import "strconv"

// Kind identifies which token was produced.
type Kind int

const (
	Invalid Kind = iota
	Create
	Table
	Select
	From
	Where
	Primary
	Key
	Null
	Comma
	LeftParen
	RightParen
	Asterisk
	Identifier
	Integer
	Eq
	Ne
	Gt
	Ge
	Lt
	Le
)

// Token is one lexed unit. Text is set only for Identifier; Int only
// for Integer.
type Token struct {
	Kind Kind
	Text []byte
	Int  int64
}

var keywords = map[string]Kind{
	"create":  Create,
	"table":   Table,
	"select":  Select,
	"from":    From,
	"where":   Where,
	"primary": Primary,
	"key":     Key,
	"null":    Null,
}

// Next skips leading ASCII whitespace and lexes the next token. It
// returns the number of bytes consumed from the start of input
// (including any skipped whitespace), the token, and ok=false if input
// is empty/all-whitespace or begins with a byte that starts no valid
// token.
func Next(input []byte) (n int, tok Token, ok bool) {
	i := 0
	for i < len(input) && isSpace(input[i]) {
		i++
	}
	if i >= len(input) {
		return 0, Token{}, false
	}

	c := input[i]
	switch {
	case c == '(':
		return i + 1, Token{Kind: LeftParen}, true
	case c == ')':
		return i + 1, Token{Kind: RightParen}, true
	case c == ',':
		return i + 1, Token{Kind: Comma}, true
	case c == '*':
		return i + 1, Token{Kind: Asterisk}, true
	case c == '=':
		return i + 1, Token{Kind: Eq}, true
	case c == '<':
		if i+1 < len(input) && input[i+1] == '=' {
			return i + 2, Token{Kind: Le}, true
		}
		if i+1 < len(input) && input[i+1] == '>' {
			return i + 2, Token{Kind: Ne}, true
		}
		return i + 1, Token{Kind: Lt}, true
	case c == '>':
		if i+1 < len(input) && input[i+1] == '=' {
			return i + 2, Token{Kind: Ge}, true
		}
		return i + 1, Token{Kind: Gt}, true
	case c == '!':
		if i+1 < len(input) && input[i+1] == '=' {
			return i + 2, Token{Kind: Ne}, true
		}
		return 0, Token{}, false
	case isDigit(c):
		j := i
		for j < len(input) && isDigit(input[j]) {
			j++
		}
		v, err := strconv.ParseInt(string(input[i:j]), 10, 64)
		if err != nil {
			return 0, Token{}, false
		}
		return j, Token{Kind: Integer, Int: v}, true
	case isIdentStart(c):
		j := i
		for j < len(input) && isIdentChar(input[j]) {
			j++
		}
		word := input[i:j]
		if kind, isKeyword := lookupKeyword(word); isKeyword {
			return j, Token{Kind: kind}, true
		}
		return j, Token{Kind: Identifier, Text: word}, true
	default:
		return 0, Token{}, false
	}
}

func lookupKeyword(word []byte) (Kind, bool) {
	// Case-insensitive, ASCII only, per the mini-parser's declared scope.
	var buf [8]byte // longest keyword, "primary", is 7 bytes
	if len(word) > len(buf) {
		return Invalid, false
	}
	for i, b := range word {
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		buf[i] = b
	}
	kind, ok := keywords[string(buf[:len(word)])]
	return kind, ok
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
