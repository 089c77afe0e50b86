// Package log is a small leveled logger built on zerolog. It is initialised
// once per process with Init; before that a stderr logger at info level is
// used.
package log

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var (
	log   atomic.Pointer[zerolog.Logger]
	level atomic.Value
)

func init() {
	Init(LogLevelInfo, "stderr")
}

// Init (re)configures the logger. Output is "stdout", "stderr" or a file
// path. Unknown levels fall back to info.
func Init(logLevel, output string) {
	var out io.Writer
	switch output {
	case "stdout":
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	case "stderr", "":
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			panic(fmt.Sprintf("cannot open log output %q: %v", output, err))
		}
		out = f
	}
	initWriter(logLevel, out)
}

func initWriter(logLevel string, out io.Writer) {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil || logLevel == "" {
		lvl, logLevel = zerolog.InfoLevel, LogLevelInfo
	}
	l := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	log.Store(&l)
	level.Store(logLevel)
}

// Level returns the current log level.
func Level() string {
	return level.Load().(string)
}

func withFields(e *zerolog.Event, keyvalues []any) *zerolog.Event {
	for i := 0; i+1 < len(keyvalues); i += 2 {
		key, ok := keyvalues[i].(string)
		if !ok {
			key = fmt.Sprint(keyvalues[i])
		}
		e = e.Interface(key, keyvalues[i+1])
	}
	if len(keyvalues)%2 == 1 {
		e = e.Interface("EXTRA_VALUE_AT_END", keyvalues[len(keyvalues)-1])
	}
	return e
}

// Debugw logs msg with the given key/value pairs.
func Debugw(msg string, keyvalues ...any) { withFields(log.Load().Debug(), keyvalues).Msg(msg) }
func Infow(msg string, keyvalues ...any)  { withFields(log.Load().Info(), keyvalues).Msg(msg) }
func Warnw(msg string, keyvalues ...any)  { withFields(log.Load().Warn(), keyvalues).Msg(msg) }

// Errorw logs msg at error level with err attached.
func Errorw(err error, msg string, keyvalues ...any) {
	withFields(log.Load().Error().Err(err), keyvalues).Msg(msg)
}
