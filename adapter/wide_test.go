package adapter

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takakv/msc-mixadapter/group"
)

func encodeLabels(t *testing.T, texts ...string) [labelSlots]*big.Int {
	t.Helper()
	params := testParams(t)
	var out [labelSlots]*big.Int
	for i, s := range texts {
		e, err := EncodeLabel(params, s)
		require.NoError(t, err)
		out[i] = e
	}
	return out
}

func TestPackUnpack(t *testing.T) {
	params := testParams(t)
	pk := testKey(t)
	ct := encrypt(t, pk, "101")
	w := Pack(encodeLabels(t, "E2024", "D1", "S1", "Q1"), ct)

	for i := 0; i < labelSlots; i++ {
		assert.Equal(t, int64(1), w.Blind[i].Int64(), "label slot %d has randomness", i)
	}
	assert.Equal(t, 0, w.Blind[Ballot].Cmp(ct.Blind))
	assert.Equal(t, 0, w.Blinded[Ballot].Cmp(ct.Blinded))

	labels, got, err := Unpack(params, w)
	require.NoError(t, err)
	assert.Equal(t, Labels{Election: "E2024", District: "D1", Station: "S1", Question: "Q1"}, labels)
	assert.True(t, ct.Equal(got))
}

func TestUnpackCorrupt(t *testing.T) {
	params := testParams(t)
	pk := testKey(t)
	good := Pack(encodeLabels(t, "E2024", "D1", "S1", "Q1"), encrypt(t, pk, "101"))

	outOfRange := good
	outOfRange.Blind[Ballot] = params.P
	_, _, err := Unpack(params, outOfRange)
	assert.ErrorIs(t, err, errOutOfRange)

	zero := good
	zero.Blinded[Ballot] = big.NewInt(0)
	_, _, err = Unpack(params, zero)
	assert.ErrorIs(t, err, errOutOfRange)

	foreign := Pack(encodeLabels(t, "E2024", "D1", "S1", "Q1"), encrypt(t, pk, "101"))
	foreign.Blinded[Station] = new(big.Int).Exp(params.G, big.NewInt(987654321), params.P)
	_, _, err = Unpack(params, foreign)
	var malformed *MalformedLabelError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, Station, malformed.Slot)
}

func TestGroupElementConversion(t *testing.T) {
	base := testBase(t)
	wg := WideGroup(base)
	w := Pack(encodeLabels(t, "E2024", "D1", "S1", "Q1"), encrypt(t, testKey(t), "101"))

	el, err := w.ToGroupElement(wg)
	require.NoError(t, err)
	assert.True(t, wg.Equal(el.Group()))

	// Projection by slot.
	blinded := el.Project(1).(*group.ProductElement)
	assert.Equal(t, 0, blinded.Project(int(Question)).(*group.ModPElement).Int().Cmp(w.Blinded[Question]))

	back, err := FromGroupElement(el)
	require.NoError(t, err)
	assert.Equal(t, w, back)

	narrow := group.NewPowerGroup(group.NewPowerGroup(base, 4), 2)
	_, err = w.ToGroupElement(narrow)
	assert.ErrorIs(t, err, ErrGroupTranslation)

	bad := w
	bad.Blinded[District] = base.P()
	_, err = bad.ToGroupElement(wg)
	assert.ErrorIs(t, err, group.ErrNotInGroup)

	_, err = FromGroupElement(base.Generator())
	assert.Error(t, err)
	_, err = FromGroupElement(group.NewPowerGroup(base, 2).Generator())
	assert.Error(t, err)
}

func TestLabelsSurviveReEncryption(t *testing.T) {
	params := testParams(t)
	pk := testKey(t)
	key := ExpandPublicKey(params.G, pk.Y)
	w := Pack(encodeLabels(t, "E2024", "D1", "S1", "Q1"), encrypt(t, pk, "101"))

	for round := 0; round < 4; round++ {
		var r [Width]*big.Int
		for i := range r {
			r[i] = randomExponent(t, params.Q())
		}
		mixed := w.ReEncrypt(key, r, params.P)

		for i := 0; i < labelSlots; i++ {
			assert.Equal(t, 0, mixed.Blinded[i].Cmp(w.Blinded[i]), "label slot %d changed", i)
		}
		assert.NotEqual(t, 0, mixed.Blinded[Ballot].Cmp(w.Blinded[Ballot]))

		labels, ct, err := Unpack(params, mixed)
		require.NoError(t, err)
		assert.Equal(t, Labels{"E2024", "D1", "S1", "Q1"}, labels)
		assert.Equal(t, "101", decrypt(t, params, ct))
		w = mixed
	}
}
