package adapter

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/takakv/msc-mixadapter/group"
	"github.com/takakv/msc-mixadapter/ivxv"
)

var errOutOfRange = errors.New("component out of range")

// WideElement is one row of the mix-net input: the blind components and the
// blinded components of Width parallel ciphertexts, indexed by Slot. The label
// slots hold degenerate ciphertexts (1, label); the ballot slot holds the real
// ciphertext.
type WideElement struct {
	Blind   [Width]*big.Int
	Blinded [Width]*big.Int
}

// Labels are the context labels of one ballot.
type Labels struct {
	Election string
	District string
	Station  string
	Question string
}

// Pack combines the encoded labels and a ballot ciphertext into a wide
// element. Labels are inserted with zero randomness.
func Pack(labels [labelSlots]*big.Int, ct *ivxv.Ciphertext) WideElement {
	var w WideElement
	for i, l := range labels {
		w.Blind[i] = big.NewInt(1)
		w.Blinded[i] = new(big.Int).Set(l)
	}
	w.Blind[Ballot] = new(big.Int).Set(ct.Blind)
	w.Blinded[Ballot] = new(big.Int).Set(ct.Blinded)
	return w
}

// Unpack recovers the labels and the ballot ciphertext of w. Only the blinded
// half of a label slot is meaningful since its key is the identity.
func Unpack(params *ivxv.ElGamalParameters, w WideElement) (Labels, *ivxv.Ciphertext, error) {
	for i := 0; i < Width; i++ {
		if !params.Contains(w.Blind[i]) || !params.Contains(w.Blinded[i]) {
			return Labels{}, nil, fmt.Errorf("%s slot: %w", Slot(i), errOutOfRange)
		}
	}
	var labels Labels
	for i := 0; i < labelSlots; i++ {
		text, err := decodeLabel(params, Slot(i), "", w.Blinded[i])
		if err != nil {
			return Labels{}, nil, err
		}
		switch Slot(i) {
		case Election:
			labels.Election = text
		case District:
			labels.District = text
		case Station:
			labels.Station = text
		case Question:
			labels.Question = text
		}
	}
	return labels, ivxv.NewCiphertext(w.Blind[Ballot], w.Blinded[Ballot]), nil
}

// ToGroupElement converts w into an element of the wide group wg.
func (w WideElement) ToGroupElement(wg *group.ProductGroup) (*group.ProductElement, error) {
	base, err := BaseGroup(wg)
	if err != nil {
		return nil, err
	}
	if wg.Width() != 2 {
		return nil, &GroupTranslationError{Reason: fmt.Sprintf("wide group has %d halves, expected 2", wg.Width())}
	}
	halves := make([]group.Element, 2)
	for h, tuple := range [2][Width]*big.Int{w.Blind, w.Blinded} {
		hg := wg.Project(h).(*group.ProductGroup)
		if hg.Width() != Width {
			return nil, &GroupTranslationError{Reason: fmt.Sprintf("key width is %d, expected %d", hg.Width(), Width)}
		}
		comps := make([]group.Element, Width)
		for i, v := range tuple {
			e, err := base.NewElement(v)
			if err != nil {
				return nil, fmt.Errorf("%s slot: %w", Slot(i), err)
			}
			comps[i] = e
		}
		if halves[h], err = hg.Product(comps...); err != nil {
			return nil, err
		}
	}
	return wg.Product(halves...)
}

// FromGroupElement projects a mix-net element onto its components.
func FromGroupElement(el group.Element) (WideElement, error) {
	var w WideElement
	outer, ok := el.(*group.ProductElement)
	if !ok || outer.Width() != 2 {
		return w, errors.New("not a pair of tuples")
	}
	for h, tuple := range []*[Width]*big.Int{&w.Blind, &w.Blinded} {
		inner, ok := outer.Project(h).(*group.ProductElement)
		if !ok || inner.Width() != Width {
			return w, fmt.Errorf("half %d is not a %d-tuple", h, Width)
		}
		for i := 0; i < Width; i++ {
			m, ok := inner.Project(i).(*group.ModPElement)
			if !ok {
				return w, fmt.Errorf("half %d, %s slot is not a modular element", h, Slot(i))
			}
			tuple[i] = m.Int()
		}
	}
	return w, nil
}

// ReEncrypt re-randomizes w under key the way the mix-net does:
// slot i is multiplied by (G_i^r_i, Y_i^r_i). Slots keyed with the identity
// keep their blinded component.
func (w WideElement) ReEncrypt(key WideElement, r [Width]*big.Int, p *big.Int) WideElement {
	var out WideElement
	for i := 0; i < Width; i++ {
		gr := new(big.Int).Exp(key.Blind[i], r[i], p)
		yr := new(big.Int).Exp(key.Blinded[i], r[i], p)
		out.Blind[i] = gr.Mul(gr, w.Blind[i]).Mod(gr, p)
		out.Blinded[i] = yr.Mul(yr, w.Blinded[i]).Mod(yr, p)
	}
	return out
}
