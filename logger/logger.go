// Package logger provides a configurable logger across the groebner engine's
// components.
//
// The root logger defined by default uses github.com/rs/zerolog with a console writer
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Debug mirrors gnark's build-time debug switch: when GROEBNER_DEBUG is set,
// the logger stays verbose even under `go test`.
var Debug = os.Getenv("GROEBNER_DEBUG") != ""

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()

	if !Debug && strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}

}

// SetOutput changes the output of the global logger
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set allow a caller to overhide the global logger
func Set(l zerolog.Logger) {
	logger = l
}

// Disable disables logging
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns the global logger; callers derive component sub-loggers from it
func Logger() zerolog.Logger {
	return logger
}
