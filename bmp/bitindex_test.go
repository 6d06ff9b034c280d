package bmp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collectBitIndex(bi *bitIndex) []int {
	var vals []int
	for {
		v, ok := bi.Next()
		if !ok {
			return vals
		}
		vals = append(vals, v)
	}
}

func TestBitIndex_OneBitFields(t *testing.T) {
	bi := newBitIndex([]byte{0b1000_0001, 0b1111_0001}, 1, 15)

	vals := collectBitIndex(bi)
	require.Equal(t, []int{1, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 0, 0, 0}, vals)

	// Exhausted cursors never resume.
	_, ok := bi.Next()
	require.False(t, ok)
	_, ok = bi.Next()
	require.False(t, ok)
}

func TestBitIndex_FourBitFields(t *testing.T) {
	bi := newBitIndex([]byte{0b1000_0001, 0b1111_0001}, 4, 4)

	require.Equal(t, []int{0b1000, 0b0001, 0b1111, 0b0001}, collectBitIndex(bi))

	_, ok := bi.Next()
	require.False(t, ok)
}

func TestBitIndex_EightBitFields(t *testing.T) {
	bi := newBitIndex([]byte{0b1000_0001, 0b1111_0001}, 8, 2)

	require.Equal(t, []int{0b1000_0001, 0b1111_0001}, collectBitIndex(bi))

	_, ok := bi.Next()
	require.False(t, ok)
}

func TestBitIndex_SizeBeyondData(t *testing.T) {
	// The sequence ends at the data boundary, not past it.
	bi := newBitIndex([]byte{0xFF}, 8, 3)

	require.Equal(t, []int{0xFF}, collectBitIndex(bi))

	_, ok := bi.Next()
	require.False(t, ok)
}

func TestBitIndex_ZeroSize(t *testing.T) {
	bi := newBitIndex([]byte{0xFF}, 1, 0)

	_, ok := bi.Next()
	require.False(t, ok)
}
