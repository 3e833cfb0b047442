package rolegraph

import "math"

// pairKey combines two concept ids into one edge key using elegant
// pairing (Szudzik). The pair is unordered: pairKey(x, y) == pairKey(y, x).
// Concept ids are small sequential integers, far below the overflow range.
func pairKey(x, y uint64) uint64 {
	if x < y {
		x, y = y, x
	}
	return x*x + x + y
}

// unpairKey inverts pairKey, returning the two concept ids with the
// smaller one first.
func unpairKey(z uint64) (uint64, uint64) {
	q := uint64(math.Sqrt(float64(z)))
	// float sqrt can land one off for large inputs; correct it.
	for q*q > z {
		q--
	}
	for (q+1)*(q+1) <= z {
		q++
	}
	l := z - q*q
	if l < q {
		return l, q
	}
	// q is the larger id, l-q the smaller.
	return l - q, q
}
