package rolegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKey_Unordered(t *testing.T) {
	assert.Equal(t, pairKey(1, 2), pairKey(2, 1))
	assert.Equal(t, pairKey(7, 7), pairKey(7, 7))
	assert.NotEqual(t, pairKey(1, 2), pairKey(1, 3))
}

func TestPairKey_RoundTrip(t *testing.T) {
	cases := [][2]uint64{
		{0, 0}, {0, 1}, {1, 2}, {2, 1}, {5, 5},
		{100, 3}, {3, 100}, {65535, 65536}, {1 << 20, 7},
	}
	for _, c := range cases {
		key := pairKey(c[0], c[1])
		a, b := unpairKey(key)
		lo, hi := c[0], c[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		assert.Equal(t, lo, a, "key %d", key)
		assert.Equal(t, hi, b, "key %d", key)
	}
}

func TestPairKey_Distinct(t *testing.T) {
	seen := make(map[uint64][2]uint64)
	for x := uint64(0); x < 50; x++ {
		for y := x; y < 50; y++ {
			key := pairKey(x, y)
			if prior, dup := seen[key]; dup {
				t.Fatalf("key collision: (%d,%d) and (%d,%d) both map to %d", x, y, prior[0], prior[1], key)
			}
			seen[key] = [2]uint64{x, y}
		}
	}
}
