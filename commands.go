package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"

	"github.com/takakv/msc-mixadapter/adapter"
	"github.com/takakv/msc-mixadapter/bytetree"
	"github.com/takakv/msc-mixadapter/group"
	"github.com/takakv/msc-mixadapter/ivxv"
	"github.com/takakv/msc-mixadapter/log"
	"github.com/takakv/msc-mixadapter/randsource"
)

// session is the state shared by the commands that need the wide key.
type session struct {
	adapter *adapter.Adapter
	pk      *ivxv.PublicKey
	key     *group.ProductElement
}

// openSession reads the election public key and expands it. The randomness
// for the group checks is seeded from the election identifier.
// sessionSeed derives the randomness seed from the election identifier as the
// mix-net sees it.
func sessionSeed(election string) []byte {
	return randsource.SeedFromElection(adapter.FilterElectionID(election))
}

func openSession(opts *options) (*session, error) {
	pk, err := ivxv.ReadPublicKeyFile(opts.pubkey)
	if err != nil {
		return nil, err
	}
	rnd, err := randsource.New(sessionSeed(pk.Params.ElectionID))
	if err != nil {
		return nil, err
	}
	a := adapter.New(opts.config())
	key, err := a.WidePublicKey(pk, rnd, opts.certainty)
	if err != nil {
		return nil, err
	}
	log.Infow("session opened",
		"session", adapter.FilterElectionID(pk.Params.ElectionID),
		"modulusBits", pk.Params.P.BitLen(),
		"warnings", a.Warnings())
	return &session{adapter: a, pk: pk, key: key}, nil
}

func (s *session) group() *group.ProductGroup {
	return s.key.Group().(*group.ProductGroup)
}

func writeByteTree(path string, t *bytetree.ByteTree) error {
	b, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func readByteTree(path string) (*bytetree.ByteTree, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytetree.Parse(b)
}

func runPubKey(opts *options, out io.Writer) error {
	bar := opts.progress(out, 2, "pubkey")
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	bar.Add(1)

	if err := writeByteTree(opts.out, s.key.ByteTree()); err != nil {
		return err
	}
	bar.Add(1)
	bar.Finish()

	base, err := adapter.BaseGroup(s.group())
	if err != nil {
		return err
	}
	desc, err := json.Marshal(base)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	color.Fprintf(out, "Election : <suc>%s</>\n", s.pk.Params.ElectionID)
	color.Fprintf(out, "Key width : <suc>%d</>\n", adapter.Width)
	fmt.Fprintf(out, "Group : %s\n", desc)
	return nil
}

func runEncode(opts *options, out io.Writer) error {
	bar := opts.progress(out, 3, "encode")
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	bar.Add(1)

	els, err := s.adapter.ReadCiphertexts(s.group(), opts.ballotBox)
	if err != nil {
		return err
	}
	bar.Add(1)

	t, err := group.MarshalArray(s.group(), els)
	if err != nil {
		return err
	}
	if err := writeByteTree(opts.out, t); err != nil {
		return err
	}
	bar.Add(1)
	bar.Finish()

	fmt.Fprintln(out)
	color.Fprintf(out, "Ciphertexts : <suc>%d</>\n", len(els))
	return nil
}

func runDecode(opts *options, out io.Writer) error {
	bar := opts.progress(out, 3, "decode")
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	bar.Add(1)

	t, err := readByteTree(opts.ciphertexts)
	if err != nil {
		return fmt.Errorf("reading ciphertexts: %w", err)
	}
	base, err := adapter.BaseGroup(s.group())
	if err != nil {
		return err
	}
	wides, err := adapter.WideElementsFromByteTree(base, t)
	if err != nil {
		return fmt.Errorf("reading ciphertexts: %w", err)
	}
	bar.Add(1)

	if err := s.adapter.WriteWideElements(s.group(), wides, opts.out); err != nil {
		return err
	}
	bar.Add(1)
	bar.Finish()

	fmt.Fprintln(out)
	color.Fprintf(out, "Ciphertexts : <suc>%d</>\n", len(wides))
	return nil
}

func runInspect(opts *options, out io.Writer) error {
	box, err := ivxv.ReadBallotBoxFile(opts.ballotBox)
	if err != nil {
		return err
	}

	color.Fprintf(out, "Election : <suc>%s</>\n", box.Election)
	for _, d := range box.Districts {
		for _, st := range d.Stations {
			for _, q := range st.Questions {
				color.Fprintf(out, "  %s/%s/%s : <info>%d</>\n", d.ID, st.ID, q.ID, len(q.Ballots))
			}
		}
	}
	color.Fprintf(out, "Ballots : <suc>%d</>\n", box.Len())

	if opts.pubkey == "" {
		return nil
	}
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	if s.pk.Params.ElectionID != box.Election {
		log.Warnw("ballot box and key elections differ", "box", box.Election, "key", s.pk.Params.ElectionID)
	}
	if _, err := adapter.PackBallotBox(context.Background(), s.pk.Params, box, opts.workers); err != nil {
		return err
	}
	color.Fprintf(out, "Encodable : <suc>OK</>\n")
	return nil
}
