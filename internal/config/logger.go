package config

import (
	"fmt"
	"io"
)

// Logger provides leveled logging for the pipeline. The interface keeps the
// core packages silent by default and lets the CLI plug in a stderr logger.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
}

// noopLogger is a Logger implementation that does nothing. It is the
// default when none is provided.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// NopLogger returns the default no-op logger.
func NopLogger() Logger {
	return &noopLogger{}
}

// writerLogger writes "level: msg key=value ..." lines to an io.Writer.
type writerLogger struct {
	w       io.Writer
	verbose bool
}

// NewWriterLogger returns a Logger printing to w. Debug lines are dropped
// unless verbose is set.
func NewWriterLogger(w io.Writer, verbose bool) Logger {
	return &writerLogger{w: w, verbose: verbose}
}

func (l *writerLogger) log(level, msg string, kv []interface{}) {
	fmt.Fprintf(l.w, "%s: %s", level, msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(l.w, " %v=%v", kv[i], kv[i+1])
	}
	fmt.Fprintln(l.w)
}

func (l *writerLogger) Debug(msg string, kv ...interface{}) {
	if l.verbose {
		l.log("debug", msg, kv)
	}
}
func (l *writerLogger) Info(msg string, kv ...interface{})  { l.log("info", msg, kv) }
func (l *writerLogger) Warn(msg string, kv ...interface{})  { l.log("warn", msg, kv) }
func (l *writerLogger) Error(msg string, kv ...interface{}) { l.log("error", msg, kv) }
