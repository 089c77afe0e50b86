package group

import (
	"fmt"

	"github.com/takakv/msc-mixadapter/bytetree"
)

// MarshalArray returns the raw representation of an array of elements of g.
// Arrays over a product group are stored component-wise: one array per factor.
func MarshalArray(g Group, els []Element) (*bytetree.ByteTree, error) {
	for i, e := range els {
		if !g.Equal(e.Group()) {
			return nil, fmt.Errorf("element %d: %w", i, ErrIncompatible)
		}
	}

	pg, ok := g.(*ProductGroup)
	if !ok {
		leaves := make([]*bytetree.ByteTree, len(els))
		for i, e := range els {
			leaves[i] = e.ByteTree()
		}
		return bytetree.NewNode(leaves...), nil
	}

	cs := make([]*bytetree.ByteTree, pg.Width())
	for j := range cs {
		proj := make([]Element, len(els))
		for i, e := range els {
			proj[i] = e.(*ProductElement).Project(j)
		}
		t, err := MarshalArray(pg.Project(j), proj)
		if err != nil {
			return nil, err
		}
		cs[j] = t
	}
	return bytetree.NewNode(cs...), nil
}

// UnmarshalArray recovers an array of elements of g from its raw
// representation.
func UnmarshalArray(g Group, t *bytetree.ByteTree) ([]Element, error) {
	pg, ok := g.(*ProductGroup)
	if !ok {
		cs, err := t.Children()
		if err != nil {
			return nil, err
		}
		els := make([]Element, len(cs))
		for i, c := range cs {
			if els[i], err = g.ElementFromByteTree(c); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return els, nil
	}

	cs, err := t.ChildrenN(pg.Width())
	if err != nil {
		return nil, err
	}
	columns := make([][]Element, len(cs))
	for j, c := range cs {
		if columns[j], err = UnmarshalArray(pg.Project(j), c); err != nil {
			return nil, fmt.Errorf("factor %d: %w", j, err)
		}
		if len(columns[j]) != len(columns[0]) {
			return nil, fmt.Errorf("factor %d: %w", j, bytetree.ErrChildCount)
		}
	}

	n := len(columns[0])
	els := make([]Element, n)
	for i := 0; i < n; i++ {
		vals := make([]Element, len(columns))
		for j := range columns {
			vals[j] = columns[j][i]
		}
		els[i] = &ProductElement{group: pg, vals: vals}
	}
	return els, nil
}
