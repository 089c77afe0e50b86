package util

import (
	"errors"
	"math/big"
)

var errTooLarge = errors.New("integer does not fit into the requested width")

// ByteLen returns the number of bytes needed to hold x.
func ByteLen(x *big.Int) int {
	return (x.BitLen() + 7) / 8
}

// FixedBytes returns the big-endian representation of x left-padded with
// zeroes to exactly n bytes.
func FixedBytes(x *big.Int, n int) ([]byte, error) {
	if x.Sign() < 0 || ByteLen(x) > n {
		return nil, errTooLarge
	}
	out := make([]byte, n)
	x.FillBytes(out)
	return out, nil
}

// InRange reports whether 1 <= x <= m-1.
func InRange(x, m *big.Int) bool {
	return x != nil && x.Sign() > 0 && x.Cmp(m) < 0
}

// IsQR reports whether x is a quadratic residue modulo the safe prime p = 2q+1,
// i.e. whether x belongs to the subgroup of order q.
func IsQR(x, p, q *big.Int) bool {
	return new(big.Int).Exp(x, q, p).Cmp(big.NewInt(1)) == 0
}
