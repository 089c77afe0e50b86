package group

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/takakv/msc-mixadapter/util"
)

var (
	ErrNotPrime     = errors.New("not a probable prime")
	ErrNotSafePrime = errors.New("modulus is not a safe prime")
	ErrBadGenerator = errors.New("generator does not span the subgroup")
)

// Check verifies that the modulus is a safe prime p = 2q + 1 and that the
// generator has order q. Primality is tested with enough Miller-Rabin rounds to
// reach an error probability below 2^-certainty; the witnesses are drawn from
// rnd.
func (g *ModPGroup) Check(rnd io.Reader, certainty int) error {
	rounds := (certainty + 1) / 2
	if rounds < 1 {
		rounds = 1
	}

	ok, err := probablyPrime(g.fieldOrder, rounds, rnd)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("modulus: %w", ErrNotPrime)
	}

	twoQ1 := new(big.Int).Lsh(g.groupOrder, 1)
	twoQ1.Add(twoQ1, big.NewInt(1))
	if twoQ1.Cmp(g.fieldOrder) != 0 {
		return ErrNotSafePrime
	}

	ok, err = probablyPrime(g.groupOrder, rounds, rnd)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("subgroup order: %w", ErrNotPrime)
	}

	if !util.InRange(g.gen, g.fieldOrder) || g.gen.Cmp(big.NewInt(1)) == 0 {
		return ErrBadGenerator
	}
	if !util.IsQR(g.gen, g.fieldOrder, g.groupOrder) {
		return ErrBadGenerator
	}
	return nil
}

// probablyPrime runs the Baillie-PSW test followed by the given number of
// Miller-Rabin rounds with witnesses read from rnd.
func probablyPrime(n *big.Int, rounds int, rnd io.Reader) (bool, error) {
	three := big.NewInt(3)
	if n.Cmp(three) <= 0 {
		return n.Cmp(big.NewInt(1)) > 0, nil
	}
	if n.Bit(0) == 0 || !n.ProbablyPrime(0) {
		return false, nil
	}

	one := big.NewInt(1)
	nm1 := new(big.Int).Sub(n, one)
	s := nm1.TrailingZeroBits()
	d := new(big.Int).Rsh(nm1, s)
	bound := new(big.Int).Sub(n, three)

	x := new(big.Int)
	for i := 0; i < rounds; i++ {
		a, err := rand.Int(rnd, bound)
		if err != nil {
			return false, fmt.Errorf("reading witness: %w", err)
		}
		a.Add(a, big.NewInt(2))

		x.Exp(a, d, n)
		if x.Cmp(one) == 0 || x.Cmp(nm1) == 0 {
			continue
		}
		composite := true
		for r := uint(1); r < s; r++ {
			x.Mul(x, x).Mod(x, n)
			if x.Cmp(nm1) == 0 {
				composite = false
				break
			}
		}
		if composite {
			return false, nil
		}
	}
	return true, nil
}
