package storage

import (
	"sort"

	wapc "github.com/wapc/wapc-guest-tinygo"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "tarmac"

// Function is a guest function exported to the host through waPC.
type Function func([]byte) ([]byte, error)

// Config provides configuration options for guest initialization.
type Config struct {
	// Namespace controls the function namespace to use for host callbacks.
	// If empty, DefaultNamespace is used.
	Namespace string

	// Functions maps exported function names to their handlers.
	Functions map[string]Function

	// Register overrides the waPC registration call. Tests use it to capture
	// the exported functions without a host.
	Register func(wapc.Functions)
}

// RuntimeConfig carries configuration that is used during creation of capability clients.
type RuntimeConfig struct {
	// Namespace is the function namespace used to scope host interactions.
	Namespace string
}

// Guest represents the initialized runtime with its registered functions.
type Guest struct {
	// runtime holds the current runtime configuration snapshot.
	runtime RuntimeConfig

	// functions holds the names registered with waPC.
	functions []string
}

// New validates the exported functions and registers them with waPC.
func New(config Config) (*Guest, error) {
	// Validate at least one function is exported
	if len(config.Functions) == 0 {
		return nil, ErrFunctionsEmpty
	}

	// Validate every handler before anything is registered
	fns := make(wapc.Functions, len(config.Functions))
	names := make([]string, 0, len(config.Functions))
	for name, fn := range config.Functions {
		if fn == nil {
			return nil, ErrHandlerNil
		}
		fns[name] = wapc.Function(fn)
		names = append(names, name)
	}
	sort.Strings(names)

	// Create runtime configuration with defaults
	cfg := RuntimeConfig{Namespace: DefaultNamespace}

	// Override defaults with provided configuration
	if config.Namespace != "" {
		cfg.Namespace = config.Namespace
	}

	// Register the functions with waPC, or the test hook when set
	register := config.Register
	if register == nil {
		register = wapc.RegisterFunctions
	}
	register(fns)

	return &Guest{runtime: cfg, functions: names}, nil
}

// Config returns the current runtime configuration snapshot.
func (g *Guest) Config() RuntimeConfig { return g.runtime }

// Functions returns the names of the registered guest functions.
func (g *Guest) Functions() []string {
	return append([]string(nil), g.functions...)
}
