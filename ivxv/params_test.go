package ivxv

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takakv/msc-mixadapter/util"
)

func TestNewElGamalParameters(t *testing.T) {
	p := mustHex("e513270e4d3c1a6fe54e9bc8a5cea19f")
	tests := []struct {
		name string
		p, g *big.Int
		ok   bool
	}{
		{"valid", p, big.NewInt(4), true},
		{"nil modulus", nil, big.NewInt(4), false},
		{"even modulus", big.NewInt(24), big.NewInt(4), false},
		{"tiny modulus", big.NewInt(5), big.NewInt(4), false},
		{"generator one", p, big.NewInt(1), false},
		{"generator zero", p, big.NewInt(0), false},
		{"generator too large", p, p, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewElGamalParameters(tc.p, tc.g, "E")
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidParameters)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	params := testParams(t)
	q := params.Q()

	for _, m := range []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(2),
		big.NewInt(12345),
		new(big.Int).Sub(q, big.NewInt(1)),
	} {
		e, err := params.Encode(m)
		require.NoError(t, err)
		assert.True(t, util.IsQR(e, params.P, q), "encoding of %s is not a residue", m)

		got, err := params.Decode(e)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Cmp(got), "decode(encode(%s)) = %s", m, got)
	}

	_, err := params.Encode(q)
	assert.ErrorIs(t, err, ErrMessageTooLong)
	_, err = params.Encode(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrMessageTooLong)

	_, err = params.Decode(big.NewInt(0))
	assert.ErrorIs(t, err, ErrNotEncoding)
	_, err = params.Decode(params.P)
	assert.ErrorIs(t, err, ErrNotEncoding)
}

func TestPadding(t *testing.T) {
	params := testParams(t)
	require.Equal(t, 16, params.PaddedLen())
	require.Equal(t, 13, params.MaxMessageLen())

	padded, err := params.Pad([]byte("ab"))
	require.NoError(t, err)
	want := []byte{0x00, 0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 'a', 'b'}
	assert.Equal(t, want, padded)

	msg, err := StripPadding(padded)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), msg)

	full := []byte("0123456789abc")
	padded, err = params.Pad(full)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x00}, padded[:3])
	msg, err = StripPadding(padded)
	require.NoError(t, err)
	assert.Equal(t, full, msg)

	_, err = params.Pad([]byte("0123456789abcd"))
	assert.ErrorIs(t, err, ErrMessageTooLong)

	empty, err := params.Pad(nil)
	require.NoError(t, err)
	msg, err = StripPadding(empty)
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestStripPaddingErrors(t *testing.T) {
	for _, b := range [][]byte{
		nil,
		{0x00, 0x01},
		{0x01, 0x01, 0x00},
		{0x00, 0x02, 0x00},
		{0x00, 0x01, 0xFF, 0xFF},
		{0x00, 0x01, 0xFF, 0x01, 'a'},
	} {
		_, err := StripPadding(b)
		assert.ErrorIs(t, err, ErrBadPadding, "%x", b)
	}
}

func TestEncodeMessage(t *testing.T) {
	params := testParams(t)
	for _, s := range []string{"", "E2024", "D1", "Tallinn", "Õismäe", "0123456789abc"} {
		e, err := params.EncodeMessage([]byte(s))
		require.NoError(t, err, s)
		got, err := params.DecodeMessage(e)
		require.NoError(t, err, s)
		assert.Equal(t, s, string(got))
	}

	// A random group element is very unlikely to carry valid padding.
	_, err := params.DecodeMessage(new(big.Int).Exp(params.G, big.NewInt(987654321), params.P))
	assert.ErrorIs(t, err, ErrBadPadding)
}
