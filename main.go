package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/schollz/progressbar/v3"

	"github.com/takakv/msc-mixadapter/adapter"
	"github.com/takakv/msc-mixadapter/log"
)

const usage = `usage: mixadapter <command> [flags]

commands:
  pubkey   expand an election public key into the mix-net wide key
  encode   convert an anonymous ballot box into mix-net ciphertexts
  decode   convert shuffled mix-net ciphertexts into an anonymous ballot box
  inspect  print the structure of an anonymous ballot box
`

var errUsage = errors.New("invalid usage")

type options struct {
	logLevel    string
	workers     int
	certainty   int
	maxWarnings int
	skipCorrupt bool
	quiet       bool

	pubkey      string
	ballotBox   string
	ciphertexts string
	out         string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.logLevel, "log-level", log.LogLevelInfo, "log level (debug, info, warn, error)")
	fs.IntVar(&o.workers, "workers", 0, "number of ballots converted in parallel (0 = number of CPUs)")
	fs.IntVar(&o.certainty, "certainty", adapter.DefaultCertainty, "certainty of the group primality checks")
	fs.IntVar(&o.maxWarnings, "max-warnings", 1, "failed group checks tolerated before aborting")
	fs.BoolVar(&o.quiet, "quiet", false, "do not show progress")
}

func (o *options) config() adapter.Config {
	return adapter.Config{
		Workers:          o.workers,
		MaxGroupWarnings: o.maxWarnings,
		Certainty:        o.certainty,
		SkipCorrupt:      o.skipCorrupt,
	}
}

// progress counts the steps of a command.
func (o *options) progress(out io.Writer, steps int, desc string) *progressbar.ProgressBar {
	if o.quiet {
		out = io.Discard
	}
	return progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(desc))
}

// flagValue is a string flag that a command cannot run without.
type flagValue struct {
	name string
	v    *string
}

// required reports the first unset flag, in declaration order.
func required(fs *flag.FlagSet, needs []flagValue) error {
	for _, f := range needs {
		if *f.v == "" {
			return fmt.Errorf("%w: %s: missing -%s", errUsage, fs.Name(), f.name)
		}
	}
	return nil
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	var opts options
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stdout)
	opts.register(fs)

	var cmd func(*options, io.Writer) error
	var needs []flagValue
	switch args[0] {
	case "pubkey":
		fs.StringVar(&opts.pubkey, "pubkey", "", "election public key (PEM)")
		fs.StringVar(&opts.out, "out", "", "output file for the wide public key")
		cmd = runPubKey
		needs = []flagValue{{"pubkey", &opts.pubkey}, {"out", &opts.out}}
	case "encode":
		fs.StringVar(&opts.pubkey, "pubkey", "", "election public key (PEM)")
		fs.StringVar(&opts.ballotBox, "ballotbox", "", "anonymous ballot box (JSON)")
		fs.StringVar(&opts.out, "out", "", "output file for the ciphertexts")
		cmd = runEncode
		needs = []flagValue{{"pubkey", &opts.pubkey}, {"ballotbox", &opts.ballotBox}, {"out", &opts.out}}
	case "decode":
		fs.StringVar(&opts.pubkey, "pubkey", "", "election public key (PEM)")
		fs.StringVar(&opts.ciphertexts, "ciphertexts", "", "shuffled ciphertexts")
		fs.StringVar(&opts.out, "out", "", "output file for the ballot box")
		fs.BoolVar(&opts.skipCorrupt, "skip-corrupt", false, "drop ciphertexts that cannot be decoded")
		cmd = runDecode
		needs = []flagValue{{"pubkey", &opts.pubkey}, {"ciphertexts", &opts.ciphertexts}, {"out", &opts.out}}
	case "inspect":
		fs.StringVar(&opts.ballotBox, "ballotbox", "", "anonymous ballot box (JSON)")
		fs.StringVar(&opts.pubkey, "pubkey", "", "if set, check that every ballot can be encoded")
		cmd = runInspect
		needs = []flagValue{{"ballotbox", &opts.ballotBox}}
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := required(fs, needs); err != nil {
		return err
	}

	log.Init(opts.logLevel, "stderr")
	return cmd(&opts, stdout)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		} else {
			log.Errorw(err, "command failed", "command", os.Args[1])
		}
		color.Fprintf(os.Stderr, "<error>ERROR</>\t%s\n", err)
		os.Exit(1)
	}
}
