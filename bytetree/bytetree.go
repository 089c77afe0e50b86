// Package bytetree implements the ByteTree format used by the mix-net to
// exchange group elements, arrays and public keys in "raw" form.
//
// A node is encoded as 0x00 followed by the 4-byte big-endian number of
// children and the children themselves. A leaf is encoded as 0x01 followed by
// the 4-byte big-endian length of its data and the data.
package bytetree

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	tagNode byte = 0x00
	tagLeaf byte = 0x01

	headerLen = 5

	// maxDepth bounds the recursion when parsing untrusted input.
	maxDepth = 16
)

var (
	ErrTruncated   = errors.New("bytetree: truncated input")
	ErrInvalidTag  = errors.New("bytetree: invalid tag")
	ErrTooDeep     = errors.New("bytetree: nesting too deep")
	ErrTrailing    = errors.New("bytetree: trailing data")
	ErrNotLeaf     = errors.New("bytetree: expected a leaf")
	ErrNotNode     = errors.New("bytetree: expected a node")
	ErrChildCount  = errors.New("bytetree: unexpected number of children")
	ErrNumChildren = errors.New("bytetree: child count exceeds input")
)

// ByteTree is either a leaf holding data or a node holding children.
type ByteTree struct {
	leaf     bool
	data     []byte
	children []*ByteTree
}

// NewLeaf returns a leaf holding b.
func NewLeaf(b []byte) *ByteTree {
	return &ByteTree{leaf: true, data: b}
}

// NewNode returns a node with the given children.
func NewNode(children ...*ByteTree) *ByteTree {
	return &ByteTree{children: children}
}

func (t *ByteTree) IsLeaf() bool {
	return t.leaf
}

// Data returns the data of a leaf.
func (t *ByteTree) Data() ([]byte, error) {
	if !t.leaf {
		return nil, ErrNotLeaf
	}
	return t.data, nil
}

// Children returns the children of a node.
func (t *ByteTree) Children() ([]*ByteTree, error) {
	if t.leaf {
		return nil, ErrNotNode
	}
	return t.children, nil
}

// ChildrenN returns the children of a node, requiring exactly n of them.
func (t *ByteTree) ChildrenN(n int) ([]*ByteTree, error) {
	cs, err := t.Children()
	if err != nil {
		return nil, err
	}
	if len(cs) != n {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrChildCount, len(cs), n)
	}
	return cs, nil
}

// Size returns the length of the encoding of t in bytes.
func (t *ByteTree) Size() int {
	if t.leaf {
		return headerLen + len(t.data)
	}
	n := headerLen
	for _, c := range t.children {
		n += c.Size()
	}
	return n
}

// MarshalBinary encodes t.
func (t *ByteTree) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, t.Size())
	return t.appendTo(buf), nil
}

func (t *ByteTree) appendTo(buf []byte) []byte {
	if t.leaf {
		buf = append(buf, tagLeaf)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(t.data)))
		return append(buf, t.data...)
	}
	buf = append(buf, tagNode)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(t.children)))
	for _, c := range t.children {
		buf = c.appendTo(buf)
	}
	return buf
}

// UnmarshalBinary decodes data into t. The whole input must be consumed.
func (t *ByteTree) UnmarshalBinary(data []byte) error {
	parsed, rest, err := parse(data, 0)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrTrailing
	}
	*t = *parsed
	return nil
}

// Parse decodes a ByteTree from data.
func Parse(data []byte) (*ByteTree, error) {
	t := new(ByteTree)
	if err := t.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return t, nil
}

func parse(data []byte, depth int) (*ByteTree, []byte, error) {
	if depth > maxDepth {
		return nil, nil, ErrTooDeep
	}
	if len(data) < headerLen {
		return nil, nil, ErrTruncated
	}
	tag := data[0]
	n := binary.BigEndian.Uint32(data[1:headerLen])
	data = data[headerLen:]

	switch tag {
	case tagLeaf:
		if uint64(n) > uint64(len(data)) {
			return nil, nil, ErrTruncated
		}
		leaf := make([]byte, n)
		copy(leaf, data[:n])
		return NewLeaf(leaf), data[n:], nil
	case tagNode:
		// Every child needs at least a header.
		if uint64(n)*headerLen > uint64(len(data)) {
			return nil, nil, ErrNumChildren
		}
		children := make([]*ByteTree, 0, n)
		for i := uint32(0); i < n; i++ {
			var c *ByteTree
			var err error
			c, data, err = parse(data, depth+1)
			if err != nil {
				return nil, nil, err
			}
			children = append(children, c)
		}
		return NewNode(children...), data, nil
	default:
		return nil, nil, fmt.Errorf("%w: 0x%02x", ErrInvalidTag, tag)
	}
}
