package jit

import (
	"fmt"

	"github.com/shaunstanislauslau/xls/errors"
)

// Backend selects how a lowered program is executed.
type Backend string

const (
	// BackendAuto uses the native backend and falls back to closures when
	// the program contains an instruction the native emitter cannot lower.
	BackendAuto Backend = "auto"
	// BackendNative emits a WebAssembly module and runs it under wazero.
	BackendNative Backend = "native"
	// BackendClosure runs the program as a slice of Go closures.
	BackendClosure Backend = "closure"
)

// ParseBackend converts a name into a Backend. The empty string is auto.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendNative, BackendClosure:
		return Backend(s), nil
	}
	return "", errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown backend %q", s))
}

// Config holds configuration for compilation
type Config struct {
	// Backend selects the execution backend. Empty means BackendAuto.
	Backend Backend

	// Interpreter runs native modules under the wazero interpreter instead
	// of its ahead-of-time compiler. Useful on platforms without compiler
	// support.
	Interpreter bool

	// MaxIdleInstances bounds the number of idle module instances kept per
	// compiled function. 0 means runtime.GOMAXPROCS(0).
	MaxIdleInstances int
}

// DefaultConfig returns the configuration used by Compile.
func DefaultConfig() *Config {
	return &Config{Backend: BackendAuto}
}

func (c *Config) backend() Backend {
	if c == nil || c.Backend == "" {
		return BackendAuto
	}
	return c.Backend
}
