package group

import "math/big"

// GroupId describes a modular group in JSON, for configuring the mix-net
// session with the same group the keys live in.
type GroupId struct {
	Name      string   `json:"group"`
	Modulus   *big.Int `json:"p"`
	Order     *big.Int `json:"q"`
	Generator *big.Int `json:"g"`
}
