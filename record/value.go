// Package record decodes a SQLite record payload — a varint header of
// per-column serial types followed by the column values — into typed
// Values. It is only used to read the five fixed columns of a
// sqlite_schema row; general row projection and type-affinity coercion
// are out of scope.
package record

import (
	"math"
	"strconv"
)

// ValueType is the logical type of a decoded Value.
type ValueType uint8

const (
	Null ValueType = iota
	Integer
	Float
	Text
	Blob
)

// Value is one column's decoded content.
type Value struct {
	Type  ValueType
	Int   int64
	Float float64
	Bytes []byte // set for Text and Blob
}

func (v Value) String() string {
	switch v.Type {
	case Null:
		return ""
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case Text, Blob:
		return string(v.Bytes)
	default:
		return ""
	}
}

// serialTypeSize returns the number of content bytes a serial type
// occupies, per the SQLite record format.
func serialTypeSize(serialType int64) int {
	switch {
	case serialType == 0, serialType == 8, serialType == 9:
		return 0
	case serialType == 1:
		return 1
	case serialType == 2:
		return 2
	case serialType == 3:
		return 3
	case serialType == 4:
		return 4
	case serialType == 5:
		return 6
	case serialType == 6, serialType == 7:
		return 8
	case serialType >= 12 && serialType%2 == 0:
		return int((serialType - 12) / 2)
	case serialType >= 13 && serialType%2 == 1:
		return int((serialType - 13) / 2)
	default:
		return 0
	}
}

// decodeValue decodes one column's content bytes according to its
// serial type.
func decodeValue(serialType int64, data []byte) Value {
	switch {
	case serialType == 0:
		return Value{Type: Null}
	case serialType == 8:
		return Value{Type: Integer, Int: 0}
	case serialType == 9:
		return Value{Type: Integer, Int: 1}
	case serialType >= 1 && serialType <= 6:
		return Value{Type: Integer, Int: decodeBigEndianInt(data)}
	case serialType == 7:
		bits := uint64(0)
		for _, b := range data {
			bits = bits<<8 | uint64(b)
		}
		return Value{Type: Float, Float: math.Float64frombits(bits)}
	case serialType >= 12 && serialType%2 == 0:
		return Value{Type: Blob, Bytes: data}
	case serialType >= 13 && serialType%2 == 1:
		return Value{Type: Text, Bytes: data}
	default:
		return Value{Type: Null}
	}
}

// decodeBigEndianInt sign-extends a big-endian two's-complement integer
// of 1, 2, 3, 4, 6, or 8 bytes.
func decodeBigEndianInt(data []byte) int64 {
	if len(data) == 0 {
		return 0
	}
	var v int64
	// Sign-extend from the leading byte.
	if data[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range data {
		v = (v << 8) | int64(b)
	}
	return v
}
