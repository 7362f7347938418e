package sdc

import (
	"fmt"
	"os"
	"time"
)

// Logger receives diagnostic output from the streamer. Plug in an adapter to
// route it into an application logger; the default writes to stderr and
// NopLogger discards everything.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NewStderrLogger returns a logger writing timestamped lines to stderr.
// Debug output is only emitted when debug is true.
func NewStderrLogger(debug bool) Logger {
	return &stderrLogger{debug: debug}
}

// NopLogger returns a logger that discards all output.
func NopLogger() Logger {
	return nopLogger{}
}

type stderrLogger struct {
	debug bool
}

func (l *stderrLogger) Debugf(format string, args ...any) {
	if l.debug {
		l.emit("DEBUG", format, args)
	}
}

func (l *stderrLogger) Infof(format string, args ...any)  { l.emit("INFO", format, args) }
func (l *stderrLogger) Warnf(format string, args ...any)  { l.emit("WARN", format, args) }
func (l *stderrLogger) Errorf(format string, args ...any) { l.emit("ERROR", format, args) }

func (l *stderrLogger) emit(level, format string, args []any) {
	fmt.Fprintf(os.Stderr, "%s %-5s sdc: %s\n",
		time.Now().Format("15:04:05.000"), level, fmt.Sprintf(format, args...))
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
