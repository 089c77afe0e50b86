package adapter

import (
	"context"
	"math/big"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/takakv/msc-mixadapter/ivxv"
	"github.com/takakv/msc-mixadapter/log"
)

type packJob struct {
	path   ivxv.Path
	labels [labelSlots]*big.Int
	ballot []byte
}

// labelCache encodes every distinct label once.
type labelCache struct {
	params *ivxv.ElGamalParameters
	cache  map[string]*big.Int
}

func (c *labelCache) encode(slot Slot, path, text string) (*big.Int, error) {
	if e, ok := c.cache[text]; ok {
		return e, nil
	}
	e, err := encodeLabel(c.params, slot, path, text)
	if err != nil {
		return nil, err
	}
	c.cache[text] = e
	return e, nil
}

// PackBallotBox converts every ballot of box into a wide element. Elements
// are returned in depth-first insertion order. The first label or ciphertext
// error aborts the whole batch and names the offending ballot.
func PackBallotBox(ctx context.Context, params *ivxv.ElGamalParameters, box *ivxv.AnonymousBallotBox, workers int) ([]WideElement, error) {
	labels := &labelCache{params: params, cache: make(map[string]*big.Int)}
	election, err := labels.encode(Election, "election", box.Election)
	if err != nil {
		return nil, err
	}

	jobs := make([]packJob, 0, box.Len())
	err = box.Walk(func(p ivxv.Path, ballot []byte) error {
		job := packJob{path: p, ballot: ballot}
		job.labels[Election] = election
		for _, l := range []struct {
			slot Slot
			text string
		}{{District, p.District}, {Station, p.Station}, {Question, p.Question}} {
			e, err := labels.encode(l.slot, p.String(), l.text)
			if err != nil {
				return err
			}
			job.labels[l.slot] = e
		}
		jobs = append(jobs, job)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]WideElement, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeWorkers(workers))
	for i := range jobs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ct, err := ivxv.ParseCiphertext(params, jobs[i].ballot)
			if err != nil {
				return &ivxv.BallotBoxFormatError{Path: jobs[i].path.String(), Err: err}
			}
			out[i] = Pack(jobs[i].labels, ct)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debugw("ballot box packed", "election", box.Election, "ballots", len(out))
	return out, nil
}

type unpacked struct {
	labels Labels
	ballot []byte
	err    error
}

// UnpackBallotBox rebuilds the ballot box from wide elements, keeping the
// order of the elements within every question. Elements are decoded in
// parallel; the election check runs afterwards in element order. A corrupt
// element aborts the batch unless skipCorrupt is set, in which case it is
// logged and dropped. Elements of different elections always abort the batch.
func UnpackBallotBox(ctx context.Context, params *ivxv.ElGamalParameters, els []WideElement, workers int, skipCorrupt bool) (*ivxv.AnonymousBallotBox, error) {
	res := make([]unpacked, len(els))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeWorkers(workers))
	for i := range els {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			labels, ct, err := Unpack(params, els[i])
			if err != nil {
				res[i].err = &CorruptWideElementError{Index: i, Err: err}
				return nil
			}
			b, err := ct.Bytes()
			if err != nil {
				res[i].err = &CorruptWideElementError{Index: i, Err: err}
				return nil
			}
			res[i] = unpacked{labels: labels, ballot: b}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var guard ElectionGuard
	box := ivxv.NewAnonymousBallotBox("")
	skipped := 0
	for i, r := range res {
		if r.err != nil {
			if !skipCorrupt {
				return nil, r.err
			}
			log.Warnw("skipping corrupt element", "index", i, "error", r.err.Error())
			skipped++
			continue
		}
		if err := guard.Observe(i, r.labels.Election); err != nil {
			return nil, err
		}
		box.Add(r.labels.District, r.labels.Station, r.labels.Question, r.ballot)
	}
	box.Election, _ = guard.Election()
	log.Debugw("ballot box unpacked", "election", box.Election, "ballots", box.Len(), "skipped", skipped)
	return box, nil
}

func normalizeWorkers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
