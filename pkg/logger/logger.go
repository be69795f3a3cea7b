// Package logger wraps zerolog behind a process-wide singleton.
//
// Call Init exactly once during startup and pass the returned logger down
// by value; Get is available for the rare spot with no injection path.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the singleton on first Init.
type Options struct {
	// Level names the minimum level to emit: trace, debug, info, warn or
	// error. Anything else falls back to info.
	Level string
	// Pretty switches to a colourised console writer. Leave false in
	// production so logs stay line-delimited JSON.
	Pretty bool
	// Output receives the log stream. Defaults to os.Stdout.
	Output io.Writer
}

var (
	instance    zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init builds the singleton logger. Subsequent calls return the logger
// created by the first one.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		instance = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Caller().
			Logger()

		initialized = true
	})
	return instance
}

// Get returns the singleton. It panics when Init has not run yet, which
// points at a startup-ordering mistake rather than a runtime condition.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Reset clears the singleton so the next Init rebuilds it. Test use only.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	initialized = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
