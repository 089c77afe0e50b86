// Package randsource provides the randomness source handed to the group
// parameter bridge. It combines a SHAKE256 stream seeded from the election
// with the operating system source, so that a weak seed never weakens the
// system randomness and vice versa.
package randsource

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/cloudflare/circl/xof"
)

// SeedLen is the length of a hex seed derived from an election identifier.
const SeedLen = 64

var ErrEmptySeed = errors.New("randsource: empty seed")

// Source is a thread-safe io.Reader.
type Source struct {
	mu      sync.Mutex
	prg     xof.XOF
	entropy io.Reader
}

// New returns a source whose output is the XOR of a SHAKE256 stream keyed
// with seed and crypto/rand.
func New(seed []byte) (*Source, error) {
	return newSource(seed, rand.Reader)
}

// NewDeterministic returns a source that only uses the seeded stream. Its
// output is reproducible and it must not be used outside of tests and
// verification runs.
func NewDeterministic(seed []byte) (*Source, error) {
	return newSource(seed, nil)
}

func newSource(seed []byte, entropy io.Reader) (*Source, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}
	prg := xof.SHAKE256.New()
	if _, err := prg.Write(seed); err != nil {
		return nil, err
	}
	return &Source{prg: prg, entropy: entropy}, nil
}

func (s *Source) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.ReadFull(s.prg, p); err != nil {
		return 0, err
	}
	if s.entropy == nil {
		return len(p), nil
	}
	buf := make([]byte, len(p))
	if _, err := io.ReadFull(s.entropy, buf); err != nil {
		return 0, err
	}
	for i := range p {
		p[i] ^= buf[i]
	}
	return len(p), nil
}

// SeedFromElection derives the seed written for an election: the hex encoding
// of the identifier right-padded with '0' to SeedLen characters. Longer
// identifiers are kept in full.
func SeedFromElection(election string) []byte {
	s := hex.EncodeToString([]byte(election))
	if len(s) < SeedLen {
		s += strings.Repeat("0", SeedLen-len(s))
	}
	return []byte(s)
}
