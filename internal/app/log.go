package app

import (
	"log"
	"os"
)

// Logger is the structural interface handshake.Logger and other packages
// duck-type against, so they never need to import app and risk an import
// cycle.
type Logger interface {
	Printf(format string, args ...interface{})
}

// StdLogger adapts the standard library logger to Logger.
type StdLogger struct {
	*log.Logger
}

// NewStdLogger returns a Logger writing to os.Stderr with a time-stamped
// prefix.
func NewStdLogger(prefix string) *StdLogger {
	if prefix != "" {
		prefix += " "
	}
	return &StdLogger{log.New(os.Stderr, prefix, log.LstdFlags)}
}
