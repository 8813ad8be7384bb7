// Package logger prints pipeline progress for the burrow CLI.
// Warnings always reach stderr so skipped entries and degraded
// behaviour stay visible; debug, info and section lines appear only
// when --verbose turns them on.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
)

var (
	mu      sync.RWMutex
	verbose bool
	out     io.Writer = os.Stderr
)

// SetVerbose toggles debug and info output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose output is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr; tests use
// this to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// logf writes one levelled line. Gated levels drop unless verbose.
func logf(l level, gated bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(out, "["+string(l)+"] "+format+"\n", args...)
}

// Debug traces pipeline internals such as retry delays and source
// kind detection.
func Debug(format string, args ...any) {
	logf(levelDebug, true, format, args...)
}

// Info reports progress milestones: sources resolved, batches stored.
func Info(format string, args ...any) {
	logf(levelInfo, true, format, args...)
}

// Warn reports skipped entries and degraded behaviour. Never gated;
// a quiet run should still show what was dropped.
func Warn(format string, args ...any) {
	logf(levelWarn, false, format, args...)
}

// Section marks a pipeline phase boundary in verbose output.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(out, "\n=== %s ===\n", name)
}
