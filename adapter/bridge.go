package adapter

import (
	"fmt"
	"io"

	"github.com/takakv/msc-mixadapter/group"
	"github.com/takakv/msc-mixadapter/ivxv"
	"github.com/takakv/msc-mixadapter/log"
)

const baseGroupName = "ModPGroup"

// BaseGroup returns the modular group underlying pgroup, which must be a
// product of products of one and the same modular group.
func BaseGroup(pgroup group.Group) (*group.ModPGroup, error) {
	outer, ok := pgroup.(*group.ProductGroup)
	if !ok {
		return nil, &GroupTranslationError{Reason: fmt.Sprintf("%s is not a product group", pgroup.Name())}
	}
	var base *group.ModPGroup
	for i := 0; i < outer.Width(); i++ {
		inner, ok := outer.Project(i).(*group.ProductGroup)
		if !ok {
			return nil, &GroupTranslationError{Reason: fmt.Sprintf("factor %d is not a product group", i)}
		}
		for j := 0; j < inner.Width(); j++ {
			m, ok := inner.Project(j).(*group.ModPGroup)
			if !ok {
				return nil, &GroupTranslationError{Reason: fmt.Sprintf("factor %d.%d is not a modular group", i, j)}
			}
			if base == nil {
				base = m
			} else if !base.Equal(m) {
				return nil, &GroupTranslationError{Reason: fmt.Sprintf("factor %d.%d differs from the base group", i, j)}
			}
		}
	}
	return base, nil
}

// ParamsFromGroup translates the base group of pgroup into storage-side
// parameters. The storage side always uses the subgroup of order (p-1)/2, so
// any other order is rejected.
func ParamsFromGroup(pgroup group.Group) (*ivxv.ElGamalParameters, *group.ModPGroup, error) {
	base, err := BaseGroup(pgroup)
	if err != nil {
		return nil, nil, err
	}
	params, err := ivxv.NewElGamalParameters(base.P(), base.G(), "")
	if err != nil {
		return nil, nil, &GroupTranslationError{Reason: "invalid base group", Err: err}
	}
	if params.Q().Cmp(base.N()) != 0 {
		return nil, nil, &GroupTranslationError{Reason: "base group order is not (p-1)/2"}
	}
	return params, base, nil
}

// GroupFromParams builds the mix-net group equivalent to params and checks its
// safe prime structure with the given certainty, drawing witnesses from rnd.
// The parameters come from a public key that was already accepted, so a failed
// check does not prevent construction: it is logged and returned as a warning
// for the caller to act on.
func GroupFromParams(params *ivxv.ElGamalParameters, rnd io.Reader, certainty int) (*group.ModPGroup, *GroupWarning) {
	g := group.NewModPGroupFromInts(baseGroupName, params.P, params.Q(), params.G)
	if err := g.Check(rnd, certainty); err != nil {
		log.Warnw("group structure check failed",
			"election", params.ElectionID,
			"modulusBits", params.P.BitLen(),
			"certainty", certainty,
			"error", err.Error())
		return g, &GroupWarning{Err: err}
	}
	log.Debugw("group bridged", "modulusBits", params.P.BitLen(), "certainty", certainty)
	return g, nil
}

// WideGroup returns the group of wide elements over base: pairs of Width-wide
// products of base.
func WideGroup(base *group.ModPGroup) *group.ProductGroup {
	return group.NewPowerGroup(group.NewPowerGroup(base, Width), 2)
}
