package items

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/tarmac-project/storage/keys"
	"github.com/tarmac-project/storage/kv"
	"github.com/tarmac-project/storage/logging"
	"github.com/tarmac-project/storage/metrics"
)

// DefaultKeyNamespace is prefixed to plaintexts before hashing when no key
// namespace is configured.
const DefaultKeyNamespace = "storage_example"

var (
	// ErrNotFound is returned by Read when no entry exists for the key.
	ErrNotFound = errors.New("item not found")

	// ErrBackend wraps any failure reported by the underlying store.
	ErrBackend = errors.New("storage backend error")

	// ErrInvalidEncoding indicates stored bytes that are not a valid UTF-8 string.
	ErrInvalidEncoding = errors.New("stored value is not valid UTF-8")

	// ErrKVNil is returned by New when no store is configured.
	ErrKVNil = errors.New("kv store cannot be nil")
)

// Item pairs a derived key with the plaintext stored under it.
type Item struct {
	Key  string `json:"key"`
	Data string `json:"data"`
}

// Config controls how an Accessor is built.
type Config struct {
	// KeyNamespace is hashed in front of every plaintext by Write.
	// If empty, DefaultKeyNamespace is used.
	KeyNamespace string

	// KV is the backing store. Required.
	KV kv.KV

	// Logger receives failures that have no error channel. Optional.
	Logger logging.Client

	// Metrics, when set, records operation counts and written sizes.
	Metrics metrics.Client
}

// Accessor performs item operations against a KV store.
type Accessor struct {
	namespace string
	kv        kv.KV
	log       logging.Client
	stats     instruments
}

// New creates an Accessor.
func New(cfg Config) (*Accessor, error) {
	if cfg.KV == nil {
		return nil, ErrKVNil
	}

	a := &Accessor{
		namespace: DefaultKeyNamespace,
		kv:        cfg.KV,
		log:       cfg.Logger,
	}
	if cfg.KeyNamespace != "" {
		a.namespace = cfg.KeyNamespace
	}
	if a.log == nil {
		a.log = logging.Discard()
	}

	if cfg.Metrics != nil {
		stats, err := newInstruments(cfg.Metrics)
		if err != nil {
			return nil, err
		}
		a.stats = stats
	}

	return a, nil
}

// KeyNamespace returns the namespace Write hashes in front of plaintexts.
func (a *Accessor) KeyNamespace() string { return a.namespace }

// Key returns the key Write would use for plaintext.
func (a *Accessor) Key(plaintext string) string {
	return keys.Derive(a.namespace, plaintext)
}

// Read returns the value stored at key.
func (a *Accessor) Read(key string) (string, error) {
	a.stats.reads.Inc()

	b, err := a.kv.Get(key)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		a.stats.errors.Inc()
		return "", errors.Join(ErrBackend, err)
	}

	if !utf8.Valid(b) {
		a.stats.errors.Inc()
		return "", errors.Join(ErrBackend, ErrInvalidEncoding)
	}

	return string(b), nil
}

// Write stores plaintext under its derived key, replacing any existing entry,
// and returns the key together with the plaintext.
func (a *Accessor) Write(plaintext string) (Item, error) {
	a.stats.writes.Inc()

	key := a.Key(plaintext)
	if err := a.kv.Set(key, []byte(plaintext)); err != nil {
		a.stats.errors.Inc()
		return Item{}, errors.Join(ErrBackend, err)
	}
	a.stats.writeBytes.Observe(float64(len(plaintext)))

	return Item{Key: key, Data: plaintext}, nil
}

// Update stores plaintext at the caller's key, creating the entry if absent.
// The key is not checked against the derivation Write uses.
func (a *Accessor) Update(key, plaintext string) error {
	a.stats.updates.Inc()

	if !keys.Valid(key) {
		a.log.Debug(fmt.Sprintf("updating non-derived key %q", key))
	}

	if err := a.kv.Set(key, []byte(plaintext)); err != nil {
		a.stats.errors.Inc()
		return errors.Join(ErrBackend, err)
	}
	a.stats.writeBytes.Observe(float64(len(plaintext)))

	return nil
}

// Delete removes the entry at key. Deleting an absent key is a no-op. Other
// failures are logged and otherwise ignored.
func (a *Accessor) Delete(key string) {
	a.stats.deletes.Inc()

	err := a.kv.Delete(key)
	if err == nil || errors.Is(err, kv.ErrKeyNotFound) {
		return
	}

	a.stats.errors.Inc()
	a.log.Warn(fmt.Sprintf("failed to delete key %q: %s", key, err))
}

// Clear removes every entry from the store. The first failure aborts the
// call; entries removed before it stay removed.
func (a *Accessor) Clear() error {
	a.stats.clears.Inc()

	all, err := a.kv.Keys()
	if err != nil {
		a.stats.errors.Inc()
		a.log.Error(fmt.Sprintf("failed to list keys for clear: %s", err))
		return errors.Join(ErrBackend, err)
	}

	for _, key := range all {
		err := a.kv.Delete(key)
		if err == nil || errors.Is(err, kv.ErrKeyNotFound) {
			continue
		}
		a.stats.errors.Inc()
		a.log.Error(fmt.Sprintf("failed to clear key %q: %s", key, err))
		return errors.Join(ErrBackend, err)
	}

	return nil
}

// Len returns the number of entries in the store.
func (a *Accessor) Len() (int, error) {
	all, err := a.kv.Keys()
	if err != nil {
		a.stats.errors.Inc()
		return 0, errors.Join(ErrBackend, err)
	}
	return len(all), nil
}
