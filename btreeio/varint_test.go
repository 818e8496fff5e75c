package btreeio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVarintSingleByte(t *testing.T) {
	v, n, err := ReadVarint([]byte{0x7f, 0xff}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0x7f), v)
	assert.Equal(t, 1, n)
}

func TestReadVarintTwoBytes(t *testing.T) {
	// 0x81 0x00 -> continuation bit set on first byte, value (1<<7)|0 = 128
	v, n, err := ReadVarint([]byte{0x81, 0x00}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(128), v)
	assert.Equal(t, 2, n)
}

func TestReadVarintNineBytesUsesFullLastByte(t *testing.T) {
	data := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	_, n, err := ReadVarint(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

func TestReadVarintAtOffset(t *testing.T) {
	data := []byte{0x00, 0x00, 0x05}
	v, n, err := ReadVarint(data, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
	assert.Equal(t, 1, n)
}

func TestReadVarintTruncated(t *testing.T) {
	_, _, err := ReadVarint([]byte{0x80, 0x80}, 0)
	assert.ErrorIs(t, err, ErrTruncatedVarint)
}

func TestReadVarintOffsetOutOfRange(t *testing.T) {
	_, _, err := ReadVarint([]byte{}, 0)
	assert.Error(t, err)
}
