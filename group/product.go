package group

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/takakv/msc-mixadapter/bytetree"
)

var ErrIncompatible = errors.New("element does not belong to the factor group")

// ProductGroup is the direct product of its factor groups. Operations are
// performed component-wise.
type ProductGroup struct {
	factors []Group
}

type ProductElement struct {
	group *ProductGroup
	vals  []Element
}

// NewProductGroup returns the product of the given groups.
func NewProductGroup(factors ...Group) *ProductGroup {
	if len(factors) == 0 {
		panic("empty product group")
	}
	fs := make([]Group, len(factors))
	copy(fs, factors)
	return &ProductGroup{factors: fs}
}

// NewPowerGroup returns the product of width copies of g.
func NewPowerGroup(g Group, width int) *ProductGroup {
	fs := make([]Group, width)
	for i := range fs {
		fs[i] = g
	}
	return NewProductGroup(fs...)
}

func (g *ProductGroup) Name() string {
	names := make([]string, len(g.factors))
	for i, f := range g.factors {
		names[i] = f.Name()
	}
	return "Product(" + strings.Join(names, ", ") + ")"
}

func (g *ProductGroup) Equal(h Group) bool {
	if g == h {
		return true
	}
	gh, ok := h.(*ProductGroup)
	if !ok || len(gh.factors) != len(g.factors) {
		return false
	}
	for i := range g.factors {
		if !g.factors[i].Equal(gh.factors[i]) {
			return false
		}
	}
	return true
}

// Width returns the number of factors.
func (g *ProductGroup) Width() int {
	return len(g.factors)
}

// Project returns the i-th factor.
func (g *ProductGroup) Project(i int) Group {
	return g.factors[i]
}

func (g *ProductGroup) build(f func(Group) Element) *ProductElement {
	vals := make([]Element, len(g.factors))
	for i, fg := range g.factors {
		vals[i] = f(fg)
	}
	return &ProductElement{group: g, vals: vals}
}

func (g *ProductGroup) Element() Element {
	return g.build(Group.Element)
}

func (g *ProductGroup) Generator() Element {
	return g.build(Group.Generator)
}

func (g *ProductGroup) Identity() Element {
	return g.build(Group.Identity)
}

// Product combines one element of each factor into an element of g.
func (g *ProductGroup) Product(els ...Element) (*ProductElement, error) {
	if len(els) != len(g.factors) {
		return nil, fmt.Errorf("%w: got %d components, expected %d", ErrIncompatible, len(els), len(g.factors))
	}
	vals := make([]Element, len(els))
	for i, e := range els {
		if !g.factors[i].Equal(e.Group()) {
			return nil, fmt.Errorf("%w: component %d", ErrIncompatible, i)
		}
		vals[i] = e
	}
	return &ProductElement{group: g, vals: vals}, nil
}

func (g *ProductGroup) ElementFromByteTree(t *bytetree.ByteTree) (Element, error) {
	cs, err := t.ChildrenN(len(g.factors))
	if err != nil {
		return nil, err
	}
	vals := make([]Element, len(cs))
	for i, c := range cs {
		if vals[i], err = g.factors[i].ElementFromByteTree(c); err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
	}
	return &ProductElement{group: g, vals: vals}, nil
}

func (e *ProductElement) check(a Element) *ProductElement {
	ey, ok := a.(*ProductElement)
	if !ok {
		panic("incompatible group element type")
	}
	if !e.group.Equal(ey.group) {
		panic("incompatible groups")
	}
	return ey
}

func (e *ProductElement) Group() Group {
	return e.group
}

// Width returns the number of components.
func (e *ProductElement) Width() int {
	return len(e.vals)
}

// Project returns the i-th component.
func (e *ProductElement) Project(i int) Element {
	return e.vals[i]
}

func (e *ProductElement) Add(a, b Element) Element {
	ex := e.check(a)
	ey := e.check(b)
	for i := range e.vals {
		e.vals[i] = e.vals[i].Group().Element().Add(ex.vals[i], ey.vals[i])
	}
	return e
}

func (e *ProductElement) Scale(a Element, s *big.Int) Element {
	ex := e.check(a)
	for i := range e.vals {
		e.vals[i] = e.vals[i].Group().Element().Scale(ex.vals[i], s)
	}
	return e
}

func (e *ProductElement) Set(a Element) Element {
	ex := e.check(a)
	for i := range e.vals {
		e.vals[i] = e.vals[i].Group().Element().Set(ex.vals[i])
	}
	return e
}

func (e *ProductElement) IsEqual(b Element) bool {
	ey, ok := b.(*ProductElement)
	if !ok || !e.group.Equal(ey.group) {
		return false
	}
	for i := range e.vals {
		if !e.vals[i].IsEqual(ey.vals[i]) {
			return false
		}
	}
	return true
}

func (e *ProductElement) IsIdentity() bool {
	for _, v := range e.vals {
		if !v.IsIdentity() {
			return false
		}
	}
	return true
}

func (e *ProductElement) String() string {
	parts := make([]string, len(e.vals))
	for i, v := range e.vals {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (e *ProductElement) ByteTree() *bytetree.ByteTree {
	cs := make([]*bytetree.ByteTree, len(e.vals))
	for i, v := range e.vals {
		cs[i] = v.ByteTree()
	}
	return bytetree.NewNode(cs...)
}
