package adapter

import "math/big"

// ExpandPublicKey builds the wide public key for generator g and ElGamal key
// y: every slot uses g as generator, the label slots use the identity as key
// and the ballot slot uses y.
//
// Re-encrypting a label slot multiplies its blinded component by 1^r, so
// labels pass through the mix-net unchanged and stay readable afterwards,
// while the ballot slot is re-randomized under the real key.
func ExpandPublicKey(g, y *big.Int) WideElement {
	var key WideElement
	for i := 0; i < Width; i++ {
		key.Blind[i] = new(big.Int).Set(g)
		key.Blinded[i] = big.NewInt(1)
	}
	key.Blinded[Ballot] = new(big.Int).Set(y)
	return key
}
