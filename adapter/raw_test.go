package adapter

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takakv/msc-mixadapter/bytetree"
	"github.com/takakv/msc-mixadapter/group"
	"github.com/takakv/msc-mixadapter/ivxv"
)

func packedArray(t *testing.T) (*group.ModPGroup, []WideElement, *bytetree.ByteTree) {
	t.Helper()
	base := testBase(t)
	wg := WideGroup(base)
	wides, err := PackBallotBox(context.Background(), testParams(t), testBox(t, "E2024"), 0)
	require.NoError(t, err)
	els := make([]group.Element, len(wides))
	for i, w := range wides {
		els[i], err = w.ToGroupElement(wg)
		require.NoError(t, err)
	}
	tree, err := group.MarshalArray(wg, els)
	require.NoError(t, err)
	return base, wides, tree
}

// leaf returns the raw component of element k in the given half and slot.
func leaf(t *testing.T, tree *bytetree.ByteTree, half int, slot Slot, k int) []byte {
	t.Helper()
	halves, err := tree.Children()
	require.NoError(t, err)
	slots, err := halves[half].Children()
	require.NoError(t, err)
	leaves, err := slots[slot].Children()
	require.NoError(t, err)
	data, err := leaves[k].Data()
	require.NoError(t, err)
	return data
}

func TestWideElementsFromByteTree(t *testing.T) {
	base, wides, tree := packedArray(t)
	got, err := WideElementsFromByteTree(base, tree)
	require.NoError(t, err)
	assert.Equal(t, wides, got)
}

func TestWideElementsFromByteTreeOutOfRange(t *testing.T) {
	base, _, tree := packedArray(t)
	clear(leaf(t, tree, 0, Ballot, 1))

	got, err := WideElementsFromByteTree(base, tree)
	require.NoError(t, err)
	assert.Equal(t, 0, got[1].Blind[Ballot].Sign())

	_, _, err = Unpack(testParams(t), got[1])
	assert.ErrorIs(t, err, errOutOfRange)
}

func TestWideElementsFromByteTreeShape(t *testing.T) {
	base, _, tree := packedArray(t)
	halves, err := tree.Children()
	require.NoError(t, err)
	slots, err := halves[1].Children()
	require.NoError(t, err)
	leaves, err := slots[Question].Children()
	require.NoError(t, err)

	tests := map[string]*bytetree.ByteTree{
		"leaf":          bytetree.NewLeaf([]byte{1}),
		"one half":      bytetree.NewNode(halves[0]),
		"narrow half":   bytetree.NewNode(halves[0], bytetree.NewNode(slots[:Width-1]...)),
		"ragged slots":  bytetree.NewNode(halves[0], bytetree.NewNode(slots[0], slots[1], slots[2], bytetree.NewNode(leaves[1:]...), slots[4])),
		"short leaf":    bytetree.NewNode(halves[0], bytetree.NewNode(slots[0], slots[1], slots[2], bytetree.NewNode(append([]*bytetree.ByteTree{bytetree.NewLeaf([]byte{1})}, leaves[1:]...)...), slots[4])),
		"nested leaves": bytetree.NewNode(halves[0], bytetree.NewNode(slots[0], slots[1], slots[2], bytetree.NewNode(append([]*bytetree.ByteTree{bytetree.NewNode()}, leaves[1:]...)...), slots[4])),
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := WideElementsFromByteTree(base, tt)
			assert.Error(t, err)
		})
	}
}

func TestWriteWideElements(t *testing.T) {
	params := testParams(t)
	base, wides, _ := packedArray(t)
	wides[0].Blinded[Ballot] = big.NewInt(0)
	out := filepath.Join(t.TempDir(), "out.json")

	err := New(DefaultConfig()).WriteWideElements(WideGroup(base), wides, out)
	require.ErrorIs(t, err, ErrCorruptWideElement)
	var cwe *CorruptWideElementError
	require.ErrorAs(t, err, &cwe)
	assert.Equal(t, 0, cwe.Index)
	assert.NoFileExists(t, out)

	skip := New(Config{SkipCorrupt: true})
	require.NoError(t, skip.WriteWideElements(WideGroup(base), wides, out))
	box, err := ivxv.ReadBallotBoxFile(out)
	require.NoError(t, err)
	assert.Equal(t, len(wides)-1, box.Len())
	assert.Equal(t, params.ElectionID, box.Election)

	err = skip.WriteWideElements(group.NewPowerGroup(base, Width), wides, out)
	assert.ErrorIs(t, err, ErrGroupTranslation)
}
