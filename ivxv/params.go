package ivxv

import (
	"fmt"
	"math/big"

	"github.com/takakv/msc-mixadapter/util"
)

// ElGamalParameters describes the group of the storage side: the quadratic
// residues modulo a safe prime P, generated by G. The parameters also carry
// the identifier of the election the key was generated for.
type ElGamalParameters struct {
	P          *big.Int
	G          *big.Int
	ElectionID string

	q *big.Int
}

// NewElGamalParameters validates p and g and derives the subgroup order.
func NewElGamalParameters(p, g *big.Int, electionID string) (*ElGamalParameters, error) {
	if p == nil || g == nil {
		return nil, fmt.Errorf("%w: missing modulus or generator", ErrInvalidParameters)
	}
	if p.Cmp(big.NewInt(7)) < 0 || p.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus must be an odd prime", ErrInvalidParameters)
	}
	if !util.InRange(g, p) || g.Cmp(big.NewInt(1)) == 0 {
		return nil, fmt.Errorf("%w: generator out of range", ErrInvalidParameters)
	}
	q := new(big.Int).Sub(p, big.NewInt(1))
	q.Rsh(q, 1)
	return &ElGamalParameters{
		P:          new(big.Int).Set(p),
		G:          new(big.Int).Set(g),
		ElectionID: electionID,
		q:          q,
	}, nil
}

// Q returns the order of the generator, (P-1)/2.
func (p *ElGamalParameters) Q() *big.Int {
	return new(big.Int).Set(p.q)
}

// Contains reports whether x is a valid integer representation of a group
// element, i.e. lies in [1, P-1].
func (p *ElGamalParameters) Contains(x *big.Int) bool {
	return util.InRange(x, p.P)
}

// Encode maps an integer m in [0, Q-1] to a quadratic residue. The value m+1
// is used if it is a residue and P-(m+1) otherwise.
func (p *ElGamalParameters) Encode(m *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(p.q) >= 0 {
		return nil, ErrMessageTooLong
	}
	e := new(big.Int).Add(m, big.NewInt(1))
	if !util.IsQR(e, p.P, p.q) {
		e.Sub(p.P, e)
	}
	return e, nil
}

// Decode inverts Encode.
func (p *ElGamalParameters) Decode(e *big.Int) (*big.Int, error) {
	if !p.Contains(e) {
		return nil, ErrNotEncoding
	}
	m := new(big.Int).Set(e)
	if m.Cmp(p.q) > 0 {
		m.Sub(p.P, m)
	}
	return m.Sub(m, big.NewInt(1)), nil
}

func (p *ElGamalParameters) String() string {
	return fmt.Sprintf("ElGamal(p=%d bits, g=%s, election=%q)", p.P.BitLen(), p.G, p.ElectionID)
}
