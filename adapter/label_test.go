package adapter

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelRoundTrip(t *testing.T) {
	params := testParams(t)
	for _, s := range []string{"", "E2024", "D1", "0482.1", "Tõrva", "ÄÖÜõ"} {
		e, err := EncodeLabel(params, s)
		require.NoError(t, err, s)
		assert.True(t, params.Contains(e))
		got, err := DecodeLabel(params, e)
		require.NoError(t, err, s)
		assert.Equal(t, s, got)
	}
}

func TestLabelCapacity(t *testing.T) {
	params := testParams(t)
	capacity := params.MaxMessageLen()
	require.Equal(t, 13, capacity)

	fits := strings.Repeat("x", capacity)
	e, err := EncodeLabel(params, fits)
	require.NoError(t, err)
	got, err := DecodeLabel(params, e)
	require.NoError(t, err)
	assert.Equal(t, fits, got)

	_, err = EncodeLabel(params, fits+"x")
	require.ErrorIs(t, err, ErrLabelTooLong)
	var tooLong *LabelTooLongError
	require.ErrorAs(t, err, &tooLong)
	assert.Equal(t, capacity+1, tooLong.Len)
	assert.Equal(t, capacity, tooLong.Capacity)

	// Capacity counts bytes, not characters.
	_, err = EncodeLabel(params, strings.Repeat("õ", 7))
	assert.ErrorIs(t, err, ErrLabelTooLong)
}

func TestLabelMalformed(t *testing.T) {
	params := testParams(t)

	_, err := EncodeLabel(params, "bad\xff")
	assert.ErrorIs(t, err, ErrMalformedLabel)

	// Valid padding around bytes that are not UTF-8.
	raw, err := params.EncodeMessage([]byte{0xC3, 0x28})
	require.NoError(t, err)
	_, err = DecodeLabel(params, raw)
	assert.ErrorIs(t, err, ErrMalformedLabel)

	// A ballot-like group element does not carry padding.
	_, err = DecodeLabel(params, new(big.Int).Exp(params.G, big.NewInt(987654321), params.P))
	var malformed *MalformedLabelError
	assert.ErrorAs(t, err, &malformed)

	_, err = DecodeLabel(params, big.NewInt(0))
	assert.ErrorIs(t, err, ErrMalformedLabel)
}
