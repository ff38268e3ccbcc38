// Command storage-example is a Tarmac WebAssembly function that stores strings
// in the host key-value store under Keccak-256 derived keys.
//
// Build with TinyGo:
//
//	tinygo build -o storage.wasm -target wasi ./cmd/storage-example
package main

import (
	sdk "github.com/tarmac-project/storage"
	"github.com/tarmac-project/storage/guest"
	"github.com/tarmac-project/storage/items"
	"github.com/tarmac-project/storage/kv"
	"github.com/tarmac-project/storage/logging"
	"github.com/tarmac-project/storage/metrics"
)

func main() {
	if err := run(sdk.Config{}); err != nil {
		panic(err)
	}
}

// run wires the capability clients into an accessor and registers the guest
// functions. cfg.Functions is filled in here.
func run(cfg sdk.Config) error {
	runtime := sdk.RuntimeConfig{Namespace: cfg.Namespace}

	store, err := kv.New(kv.Config{SDKConfig: runtime})
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{SDKConfig: runtime, Level: logging.LevelInfo})
	if err != nil {
		return err
	}

	stats, err := metrics.New(metrics.Config{SDKConfig: runtime})
	if err != nil {
		return err
	}

	accessor, err := items.New(items.Config{
		KeyNamespace: items.DefaultKeyNamespace,
		KV:           store,
		Logger:       log,
		Metrics:      stats,
	})
	if err != nil {
		return err
	}

	fns, err := guest.Functions(accessor)
	if err != nil {
		return err
	}
	cfg.Functions = fns

	_, err = sdk.New(cfg)
	return err
}
