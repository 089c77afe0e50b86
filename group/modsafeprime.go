package group

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/takakv/msc-mixadapter/bytetree"
	"github.com/takakv/msc-mixadapter/util"
)

var ErrNotInGroup = errors.New("value is not an element of the group")

type ModPElement struct {
	group *ModPGroup
	val   *big.Int
}

// ModPGroup is the subgroup of quadratic residues modulo a safe prime
// p = 2q + 1, generated by gen.
type ModPGroup struct {
	gen        *big.Int
	fieldOrder *big.Int
	groupOrder *big.Int
	byteLen    int
	name       string
}

func (g *ModPGroup) Name() string {
	return g.name
}

func (g *ModPGroup) Equal(h Group) bool {
	if g == h {
		return true
	}
	gh, ok := h.(*ModPGroup)
	if !ok {
		return false
	}
	return g.fieldOrder.Cmp(gh.fieldOrder) == 0 &&
		g.groupOrder.Cmp(gh.groupOrder) == 0 &&
		g.gen.Cmp(gh.gen) == 0
}

// P returns the modulus.
func (g *ModPGroup) P() *big.Int {
	return new(big.Int).Set(g.fieldOrder)
}

// N returns the order of the generator.
func (g *ModPGroup) N() *big.Int {
	return new(big.Int).Set(g.groupOrder)
}

// G returns the generator as an integer.
func (g *ModPGroup) G() *big.Int {
	return new(big.Int).Set(g.gen)
}

// ByteLen returns the fixed width of raw element encodings.
func (g *ModPGroup) ByteLen() int {
	return g.byteLen
}

func (g *ModPGroup) Generator() Element {
	return &ModPElement{
		group: g,
		val:   new(big.Int).Set(g.gen),
	}
}

func (g *ModPGroup) Identity() Element {
	return &ModPElement{
		group: g,
		val:   big.NewInt(1),
	}
}

func (g *ModPGroup) Element() Element {
	e := new(ModPElement)
	e.group = g
	e.val = big.NewInt(1)
	return e
}

// NewElement returns the element with value v, which must lie in [1, p-1].
func (g *ModPGroup) NewElement(v *big.Int) (*ModPElement, error) {
	if !util.InRange(v, g.fieldOrder) {
		return nil, ErrNotInGroup
	}
	return &ModPElement{group: g, val: new(big.Int).Set(v)}, nil
}

func (g *ModPGroup) ElementFromByteTree(t *bytetree.ByteTree) (Element, error) {
	data, err := t.Data()
	if err != nil {
		return nil, err
	}
	if len(data) != g.byteLen {
		return nil, fmt.Errorf("%w: leaf has %d bytes, expected %d", ErrNotInGroup, len(data), g.byteLen)
	}
	return g.NewElement(new(big.Int).SetBytes(data))
}

func (g *ModPGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(&GroupId{
		Name:      g.name,
		Modulus:   g.fieldOrder,
		Order:     g.groupOrder,
		Generator: g.gen,
	})
}

func (e *ModPElement) check(a Element) *ModPElement {
	ey, ok := a.(*ModPElement)
	if !ok {
		panic("incompatible group element type")
	}
	if !e.group.Equal(ey.group) {
		panic("incompatible groups")
	}
	return ey
}

func (e *ModPElement) Group() Group {
	return e.group
}

func (e *ModPElement) Add(a Element, b Element) Element {
	ex := e.check(a)
	ey := e.check(b)
	e.val.Mul(ex.val, ey.val)
	e.val.Mod(e.val, e.group.fieldOrder)
	return e
}

func (e *ModPElement) Set(a Element) Element {
	ex := e.check(a)
	e.val.Set(ex.val)
	return e
}

func (e *ModPElement) Scale(a Element, s *big.Int) Element {
	ex := e.check(a)
	e.val.Exp(ex.val, s, e.group.fieldOrder)
	return e
}

func (e *ModPElement) IsEqual(b Element) bool {
	ey, ok := b.(*ModPElement)
	if !ok || !e.group.Equal(ey.group) {
		return false
	}
	return e.val.Cmp(ey.val) == 0
}

func (e *ModPElement) IsIdentity() bool {
	return e.val.Cmp(big.NewInt(1)) == 0
}

// Int returns a copy of the integer value of the element.
func (e *ModPElement) Int() *big.Int {
	return new(big.Int).Set(e.val)
}

func (e *ModPElement) String() string {
	return e.val.String()
}

func (e *ModPElement) ByteTree() *bytetree.ByteTree {
	b, err := util.FixedBytes(e.val, e.group.byteLen)
	if err != nil {
		panic("group element exceeds the modulus width")
	}
	return bytetree.NewLeaf(b)
}

// NewModPGroup parses a hard-coded group definition given in hexadecimal.
// The subgroup order is derived as (p-1)/2.
func NewModPGroup(name string, fieldOrder, generator string) *ModPGroup {
	repr := strings.Join(strings.Fields(fieldOrder), "")

	ffOrder, ok := new(big.Int).SetString(repr, 16)
	if !ok {
		panic("invalid group definition")
	}

	gen, ok := new(big.Int).SetString(generator, 16)
	if !ok {
		panic("invalid generator")
	}

	genOrder := new(big.Int).Set(ffOrder)
	genOrder.Sub(genOrder, big.NewInt(1))
	genOrder.Div(genOrder, big.NewInt(2))

	return NewModPGroupFromInts(name, ffOrder, genOrder, gen)
}

// NewModPGroupFromInts builds a group from its modulus, subgroup order and
// generator without validating them. Use Check to validate the structure.
func NewModPGroupFromInts(name string, p, q, g *big.Int) *ModPGroup {
	G := new(ModPGroup)
	G.fieldOrder = new(big.Int).Set(p)
	G.groupOrder = new(big.Int).Set(q)
	G.gen = new(big.Int).Set(g)
	G.byteLen = util.ByteLen(p)
	G.name = name
	return G
}
