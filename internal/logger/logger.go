// Package logger provides levelled logging for the vecsync CLI.
// Debug and info messages are printed only in verbose mode (the --verbose
// flag); warnings and errors are always printed. Output goes to stderr
// unless redirected with SetOutput.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu         sync.RWMutex
	verbose    bool
	timestamps bool
	output     io.Writer = os.Stderr
	now                  = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetTimestamps prefixes every line with the local time when enabled.
// Long-running commands such as watch turn this on.
func SetTimestamps(v bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = v
}

// Timestamps reports whether lines are prefixed with the local time.
func Timestamps() bool {
	mu.RLock()
	defer mu.RUnlock()
	return timestamps
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(true, "DEBUG", format, args)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(true, "INFO", format, args)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	write(false, "WARN", format, args)
}

// Error prints an error message.
func Error(format string, args ...any) {
	write(false, "ERROR", format, args)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// write holds the write lock so concurrent callers never interleave output.
func write(verboseOnly bool, level, format string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	if verboseOnly && !verbose {
		return
	}

	prefix := "[" + level + "] "
	if timestamps {
		prefix = now().Format("15:04:05") + " " + prefix
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
