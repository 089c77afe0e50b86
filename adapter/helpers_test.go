package adapter

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takakv/msc-mixadapter/group"
	"github.com/takakv/msc-mixadapter/ivxv"
)

const testModulus = "e513270e4d3c1a6fe54e9bc8a5cea19f"

var testSecret = big.NewInt(13)

func testParams(t *testing.T) *ivxv.ElGamalParameters {
	t.Helper()
	p, _ := new(big.Int).SetString(testModulus, 16)
	params, err := ivxv.NewElGamalParameters(p, big.NewInt(4), "E2024")
	require.NoError(t, err)
	return params
}

func testKey(t *testing.T) *ivxv.PublicKey {
	t.Helper()
	params := testParams(t)
	return &ivxv.PublicKey{Params: params, Y: new(big.Int).Exp(params.G, testSecret, params.P)}
}

func testBase(t *testing.T) *group.ModPGroup {
	t.Helper()
	params := testParams(t)
	return group.NewModPGroupFromInts(baseGroupName, params.P, params.Q(), params.G)
}

func randomExponent(t *testing.T, q *big.Int) *big.Int {
	t.Helper()
	r, err := rand.Int(rand.Reader, q)
	require.NoError(t, err)
	return r
}

// encrypt encrypts the short message msg under pk.
func encrypt(t *testing.T, pk *ivxv.PublicKey, msg string) *ivxv.Ciphertext {
	t.Helper()
	p := pk.Params.P
	m, err := pk.Params.EncodeMessage([]byte(msg))
	require.NoError(t, err)
	r := randomExponent(t, pk.Params.Q())
	blind := new(big.Int).Exp(pk.Params.G, r, p)
	blinded := new(big.Int).Exp(pk.Y, r, p)
	blinded.Mul(blinded, m).Mod(blinded, p)
	return ivxv.NewCiphertext(blind, blinded)
}

func encryptBytes(t *testing.T, pk *ivxv.PublicKey, msg string) []byte {
	t.Helper()
	b, err := encrypt(t, pk, msg).Bytes()
	require.NoError(t, err)
	return b
}

func decrypt(t *testing.T, params *ivxv.ElGamalParameters, ct *ivxv.Ciphertext) string {
	t.Helper()
	s := new(big.Int).Exp(ct.Blind, testSecret, params.P)
	s.ModInverse(s, params.P)
	m := s.Mul(s, ct.Blinded).Mod(s, params.P)
	msg, err := params.DecodeMessage(m)
	require.NoError(t, err)
	return string(msg)
}
