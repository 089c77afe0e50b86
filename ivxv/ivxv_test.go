package ivxv

import (
	"math/big"
	"testing"
)

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex")
	}
	return v
}

// testParams returns parameters over a 128-bit safe prime.
func testParams(t *testing.T) *ElGamalParameters {
	t.Helper()
	p, err := NewElGamalParameters(mustHex("e513270e4d3c1a6fe54e9bc8a5cea19f"), big.NewInt(4), "E2024")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func testKey(t *testing.T, x int64) *PublicKey {
	params := testParams(t)
	return &PublicKey{
		Params: params,
		Y:      new(big.Int).Exp(params.G, big.NewInt(x), params.P),
	}
}
