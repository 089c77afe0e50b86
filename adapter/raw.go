package adapter

import (
	"fmt"
	"math/big"

	"github.com/takakv/msc-mixadapter/bytetree"
	"github.com/takakv/msc-mixadapter/group"
)

// WideElementsFromByteTree reads an array of wide elements over base from its
// raw component-wise representation. Only the shape and the leaf widths are
// checked. Component ranges are left to Unpack, so that one bad element is
// reported on its own instead of failing the whole array.
func WideElementsFromByteTree(base *group.ModPGroup, t *bytetree.ByteTree) ([]WideElement, error) {
	halves, err := t.ChildrenN(2)
	if err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}
	var out []WideElement
	for h, half := range halves {
		slots, err := half.ChildrenN(Width)
		if err != nil {
			return nil, fmt.Errorf("unpack: half %d: %w", h, err)
		}
		for i, slot := range slots {
			leaves, err := slot.Children()
			if err != nil {
				return nil, fmt.Errorf("unpack: half %d, %s slot: %w", h, Slot(i), err)
			}
			if out == nil {
				out = make([]WideElement, len(leaves))
			} else if len(leaves) != len(out) {
				return nil, fmt.Errorf("unpack: half %d, %s slot: %w", h, Slot(i), bytetree.ErrChildCount)
			}
			for k, leaf := range leaves {
				data, err := leaf.Data()
				if err != nil {
					return nil, fmt.Errorf("unpack: element %d: %w", k, err)
				}
				if len(data) != base.ByteLen() {
					return nil, fmt.Errorf("unpack: element %d: leaf has %d bytes, expected %d", k, len(data), base.ByteLen())
				}
				v := new(big.Int).SetBytes(data)
				if h == 0 {
					out[k].Blind[i] = v
				} else {
					out[k].Blinded[i] = v
				}
			}
		}
	}
	return out, nil
}
