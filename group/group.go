package group

import (
	"math/big"

	"github.com/takakv/msc-mixadapter/bytetree"
)

// Element represents an element of a group understood by the mix-net.
// The group operation is written additively, as for the other groups of this
// module, even though the modular groups are multiplicative.
type Element interface {
	// Group returns the group the element belongs to.
	Group() Group
	// Add sets the receiver to X + Y, and returns it.
	Add(X, Y Element) Element
	// Scale performs the group operation s times with X,
	// sets the receiver to the result, and returns it.
	Scale(X Element, s *big.Int) Element
	// Set the receiver to X, and returns it.
	Set(X Element) Element
	// IsEqual returns true if the receiver is equal to X.
	IsEqual(X Element) bool
	// IsIdentity returns true if the receiver is the group's
	// identity element.
	IsIdentity() bool
	// String returns a string representation of the element.
	String() string
	// ByteTree returns the raw mix-net representation of the element.
	ByteTree() *bytetree.ByteTree
}

// Group represents a group whose elements can be exchanged with the mix-net.
type Group interface {
	// Name returns the name of the group.
	Name() string
	// Equal reports whether h describes the same group.
	Equal(h Group) bool

	// Element creates a new group element.
	Element() Element
	// Generator creates a group element set to the group's generator.
	Generator() Element
	// Identity creates a group element set to the group's identity element.
	Identity() Element

	// ElementFromByteTree recovers an element from its raw representation.
	ElementFromByteTree(t *bytetree.ByteTree) (Element, error)
}
