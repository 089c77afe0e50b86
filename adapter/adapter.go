// Package adapter converts between the hierarchical anonymous ballot box of
// the storage side and the flat arrays of wide elements shuffled by the
// mix-net.
//
// Every ballot becomes one wide element: the election, district, station and
// question labels are encoded as group elements and placed next to the
// ballot ciphertext. The wide public key uses the identity as key for the
// label slots, so shuffling re-randomizes the ballot while the labels stay
// attached to it in readable form.
package adapter

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/takakv/msc-mixadapter/group"
	"github.com/takakv/msc-mixadapter/ivxv"
	"github.com/takakv/msc-mixadapter/log"
)

// DefaultCertainty bounds the error probability of the primality tests by
// 2^-DefaultCertainty.
const DefaultCertainty = 50

// ProtocolElGamalInterface is what the mix-net calls to import public keys
// and ciphertexts from, and export them to, an external format.
type ProtocolElGamalInterface interface {
	ReadPublicKey(path string, rnd io.Reader, certainty int) (group.Element, error)
	ReadCiphertexts(pgroup group.Group, path string) ([]group.Element, error)
	WriteCiphertexts(ciphertexts []group.Element, path string) error
	DecodePlaintexts(plaintexts []group.Element, path string) error
	WritePublicKey(fullPublicKey group.Element, path string) error
}

type Config struct {
	// Workers bounds the number of ballots converted in parallel.
	Workers int
	// MaxGroupWarnings is the number of failed group structure checks
	// tolerated in one session before it is aborted.
	MaxGroupWarnings int
	// Certainty is used when ReadPublicKey is called without one.
	Certainty int
	// SkipCorrupt drops elements that cannot be unpacked instead of
	// aborting the batch.
	SkipCorrupt bool
}

func DefaultConfig() Config {
	return Config{
		Workers:          runtime.GOMAXPROCS(0),
		MaxGroupWarnings: 1,
		Certainty:        DefaultCertainty,
	}
}

// Adapter implements ProtocolElGamalInterface for the anonymous ballot box
// format. One Adapter serves one mixing session.
type Adapter struct {
	cfg Config

	mu       sync.Mutex
	warnings int
}

var _ ProtocolElGamalInterface = (*Adapter)(nil)

func New(cfg Config) *Adapter {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxGroupWarnings < 0 {
		cfg.MaxGroupWarnings = 0
	}
	if cfg.Certainty <= 0 {
		cfg.Certainty = DefaultCertainty
	}
	return &Adapter{cfg: cfg}
}

// Warnings returns the number of failed group structure checks so far.
func (a *Adapter) Warnings() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.warnings
}

// ReadPublicKey reads a PEM public key and returns the wide public key over
// the equivalent mix-net group.
func (a *Adapter) ReadPublicKey(path string, rnd io.Reader, certainty int) (group.Element, error) {
	pk, err := ivxv.ReadPublicKeyFile(path)
	if err != nil {
		return nil, err
	}
	log.Infow("public key read",
		"election", pk.Params.ElectionID,
		"modulusBits", pk.Params.P.BitLen())
	return a.WidePublicKey(pk, rnd, certainty)
}

// WidePublicKey bridges the group of pk and expands pk into the wide key.
func (a *Adapter) WidePublicKey(pk *ivxv.PublicKey, rnd io.Reader, certainty int) (*group.ProductElement, error) {
	if certainty <= 0 {
		certainty = a.cfg.Certainty
	}
	base, warn := GroupFromParams(pk.Params, rnd, certainty)
	if warn != nil {
		a.mu.Lock()
		a.warnings++
		n := a.warnings
		a.mu.Unlock()
		if n > a.cfg.MaxGroupWarnings {
			return nil, &GroupTranslationError{
				Reason: fmt.Sprintf("group structure check failed %d times", n),
				Err:    warn,
			}
		}
	}
	key := ExpandPublicKey(pk.Params.G, pk.Y)
	return key.ToGroupElement(WideGroup(base))
}

// ReadCiphertexts reads the ballot box at path and returns one wide element
// of pgroup per ballot. Nothing is returned unless every ballot converts.
func (a *Adapter) ReadCiphertexts(pgroup group.Group, path string) ([]group.Element, error) {
	params, wg, err := a.wideParams(pgroup)
	if err != nil {
		return nil, err
	}
	box, err := ivxv.ReadBallotBoxFile(path)
	if err != nil {
		return nil, err
	}
	wides, err := PackBallotBox(context.Background(), params, box, a.cfg.Workers)
	if err != nil {
		return nil, err
	}
	out := make([]group.Element, len(wides))
	for i, w := range wides {
		if out[i], err = w.ToGroupElement(wg); err != nil {
			return nil, fmt.Errorf("pack: element %d: %w", i, err)
		}
	}
	log.Infow("ciphertexts read", "election", box.Election, "ballots", len(out))
	return out, nil
}

// WriteCiphertexts rebuilds the ballot box from mixed wide elements and
// writes it to path. The file is only written if the whole batch unpacks.
func (a *Adapter) WriteCiphertexts(ciphertexts []group.Element, path string) error {
	if len(ciphertexts) == 0 {
		log.Warnw("writing empty ballot box", "path", path)
		return ivxv.NewAnonymousBallotBox("").WriteFile(path)
	}
	pgroup := ciphertexts[0].Group()
	params, _, err := a.wideParams(pgroup)
	if err != nil {
		return err
	}
	wides := make([]WideElement, len(ciphertexts))
	for i, el := range ciphertexts {
		if !pgroup.Equal(el.Group()) {
			return &CorruptWideElementError{Index: i, Err: group.ErrIncompatible}
		}
		if wides[i], err = FromGroupElement(el); err != nil {
			return &CorruptWideElementError{Index: i, Err: err}
		}
	}
	return a.writeWide(params, wides, path)
}

// WriteWideElements is WriteCiphertexts for elements of pgroup that were read
// without group membership checks, such as raw mix-net output. Elements with
// components outside the group fail on their own as corrupt elements.
func (a *Adapter) WriteWideElements(pgroup group.Group, wides []WideElement, path string) error {
	params, _, err := a.wideParams(pgroup)
	if err != nil {
		return err
	}
	return a.writeWide(params, wides, path)
}

func (a *Adapter) writeWide(params *ivxv.ElGamalParameters, wides []WideElement, path string) error {
	box, err := UnpackBallotBox(context.Background(), params, wides, a.cfg.Workers, a.cfg.SkipCorrupt)
	if err != nil {
		return err
	}
	if err := box.WriteFile(path); err != nil {
		return err
	}
	log.Infow("ciphertexts written", "election", box.Election, "ballots", box.Len())
	return nil
}

// DecodePlaintexts is not needed by the mixing session and does nothing.
func (a *Adapter) DecodePlaintexts(plaintexts []group.Element, path string) error {
	return nil
}

// WritePublicKey is not needed by the mixing session and does nothing.
func (a *Adapter) WritePublicKey(fullPublicKey group.Element, path string) error {
	return nil
}

func (a *Adapter) wideParams(pgroup group.Group) (*ivxv.ElGamalParameters, *group.ProductGroup, error) {
	params, base, err := ParamsFromGroup(pgroup)
	if err != nil {
		return nil, nil, err
	}
	wg := WideGroup(base)
	if !wg.Equal(pgroup) {
		return nil, nil, &GroupTranslationError{Reason: fmt.Sprintf("%s is not the width %d wide group", pgroup.Name(), Width)}
	}
	return params, wg, nil
}
