// Package logger writes pipeline diagnostics to stderr when --verbose is
// set: pages extracted, chunks produced and packed, prompt size estimates
// and stage timings. With verbose off every call is a no-op.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type level string

const (
	levelDebug level = "[DEBUG] "
	levelInfo  level = "[INFO] "
	levelWarn  level = "[WARN] "
)

var state = struct {
	sync.RWMutex
	on  bool
	out io.Writer
}{out: os.Stderr}

// SetVerbose turns logging on or off.
func SetVerbose(on bool) {
	state.Lock()
	state.on = on
	state.Unlock()
}

// IsVerbose reports whether logging is on.
func IsVerbose() bool {
	state.RLock()
	defer state.RUnlock()
	return state.on
}

// SetOutput redirects log lines, which go to os.Stderr by default.
func SetOutput(w io.Writer) {
	state.Lock()
	state.out = w
	state.Unlock()
}

func write(line string) {
	state.RLock()
	defer state.RUnlock()
	if state.on {
		io.WriteString(state.out, line) //nolint:errcheck
	}
}

func logf(l level, format string, args []any) {
	if !IsVerbose() {
		return
	}
	write(string(l) + fmt.Sprintf(format, args...) + "\n")
}

func Debug(format string, args ...any) { logf(levelDebug, format, args) }
func Info(format string, args ...any)  { logf(levelInfo, format, args) }
func Warn(format string, args ...any)  { logf(levelWarn, format, args) }

// Section starts a new block of output, e.g. one per pipeline stage.
func Section(name string) {
	write("\n=== " + name + " ===\n")
}

// Timer logs the time since it was created when the returned func runs.
//
//	defer logger.Timer("extract")()
func Timer(stage string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %s", stage, time.Since(start).Round(time.Millisecond))
	}
}
