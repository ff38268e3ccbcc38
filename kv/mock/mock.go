/*
Package mock provides a mock implementation of the kv.KV interface for testing
storage code without invoking host calls.

# Basic Usage

	m := mock.New(mock.Config{Seed: map[string][]byte{"a": []byte("1")}})
	v, err := m.Get("a")

# Overriding Behavior

	m.OnGet("missing").ReturnValue(nil).ReturnError(kv.ErrKeyNotFound)
	m.OnSet("bad").ReturnError(fmt.Errorf("quota exceeded"))
	m.OnDelete("ghost").ReturnError(kv.ErrHostError)
	m.OnKeys().ReturnKeys([]string{"x", "y"})

# Inspecting Calls

	for _, c := range m.Calls {
		// c.Op, c.Key, c.Value
	}
*/
package mock

import (
	"sort"

	"github.com/tarmac-project/storage/kv"
)

// Operation names recorded in Calls and used for per-call configuration.
const (
	OpGet    = "GET"
	OpSet    = "SET"
	OpDelete = "DELETE"
	OpKeys   = "KEYS"
)

// Config configures the mock client.
type Config struct {
	// Seed pre-populates the in-memory store.
	Seed map[string][]byte
}

// Response describes a configured mock outcome.
type Response struct {
	// Value applies to GET.
	Value []byte
	// Keys applies to KEYS.
	Keys []string
	// Err indicates an error to return for the operation.
	Err error
	// storeOnSet controls whether SET updates the in-memory store when a
	// configured SET response exists and Err == nil. Defaults to true.
	storeOnSet *bool
}

type target struct {
	op  string
	key string
}

// ResponseBuilder allows fluent configuration of responses.
type ResponseBuilder struct {
	m *Client
	t target
}

func (b *ResponseBuilder) update(fn func(*Response)) {
	r := b.m.responses[b.t]
	fn(&r)
	b.m.responses[b.t] = r
}

// ReturnValue sets bytes returned by GET.
func (b *ResponseBuilder) ReturnValue(v []byte) *ResponseBuilder {
	b.update(func(r *Response) { r.Value = v })
	return b
}

// ReturnKeys sets keys returned by KEYS.
func (b *ResponseBuilder) ReturnKeys(keys []string) *ResponseBuilder {
	b.update(func(r *Response) { r.Keys = append([]string(nil), keys...) })
	return b
}

// ReturnError sets an error for the configured operation.
func (b *ResponseBuilder) ReturnError(err error) *Client {
	b.update(func(r *Response) { r.Err = err })
	return b.m
}

// StoreOnSet controls whether a configured SET without error updates the store (default true).
func (b *ResponseBuilder) StoreOnSet(v bool) *ResponseBuilder {
	b.update(func(r *Response) { r.storeOnSet = &v })
	return b
}

// Call records an operation performed against the mock.
type Call struct {
	Op    string
	Key   string
	Value []byte
}

// Client implements kv.KV for tests.
type Client struct {
	store     map[string][]byte
	responses map[target]Response
	// Calls stores a history of operations for assertions.
	Calls []Call
}

var _ kv.KV = (*Client)(nil)

// New creates a new mock KV client.
func New(cfg Config) *Client {
	st := make(map[string][]byte, len(cfg.Seed))
	for k, v := range cfg.Seed {
		st[k] = append([]byte(nil), v...)
	}
	return &Client{
		store:     st,
		responses: make(map[target]Response),
		Calls:     []Call{},
	}
}

// OnGet configures a GET response for a key.
func (m *Client) OnGet(key string) *ResponseBuilder {
	return &ResponseBuilder{m: m, t: target{OpGet, key}}
}

// OnSet configures a SET response for a key.
func (m *Client) OnSet(key string) *ResponseBuilder {
	return &ResponseBuilder{m: m, t: target{OpSet, key}}
}

// OnDelete configures a DELETE response for a key.
func (m *Client) OnDelete(key string) *ResponseBuilder {
	return &ResponseBuilder{m: m, t: target{OpDelete, key}}
}

// OnKeys configures the KEYS response.
func (m *Client) OnKeys() *ResponseBuilder { return &ResponseBuilder{m: m, t: target{op: OpKeys}} }

// Len returns the number of entries currently held.
func (m *Client) Len() int { return len(m.store) }

// Value returns the bytes held at key without recording a call.
func (m *Client) Value(key string) ([]byte, bool) {
	v, ok := m.store[key]
	return v, ok
}

// Get implements kv.KV.
func (m *Client) Get(key string) ([]byte, error) {
	m.Calls = append(m.Calls, Call{Op: OpGet, Key: key})
	if key == "" {
		return nil, kv.ErrInvalidKey
	}
	if r, ok := m.responses[target{OpGet, key}]; ok {
		return r.Value, r.Err
	}
	v, ok := m.store[key]
	if !ok {
		return nil, kv.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements kv.KV.
func (m *Client) Set(key string, value []byte) error {
	m.Calls = append(m.Calls, Call{Op: OpSet, Key: key, Value: append([]byte(nil), value...)})
	if key == "" {
		return kv.ErrInvalidKey
	}
	if value == nil {
		return kv.ErrInvalidValue
	}
	if r, ok := m.responses[target{OpSet, key}]; ok {
		if r.Err != nil {
			return r.Err
		}
		if r.storeOnSet != nil && !*r.storeOnSet {
			return nil
		}
	}
	m.store[key] = append([]byte{}, value...)
	return nil
}

// Delete implements kv.KV.
func (m *Client) Delete(key string) error {
	m.Calls = append(m.Calls, Call{Op: OpDelete, Key: key})
	if key == "" {
		return kv.ErrInvalidKey
	}
	if r, ok := m.responses[target{OpDelete, key}]; ok {
		return r.Err
	}
	if _, ok := m.store[key]; !ok {
		return kv.ErrKeyNotFound
	}
	delete(m.store, key)
	return nil
}

// Keys implements kv.KV. Keys are returned sorted.
func (m *Client) Keys() ([]string, error) {
	m.Calls = append(m.Calls, Call{Op: OpKeys})
	if r, ok := m.responses[target{op: OpKeys}]; ok {
		return append([]string(nil), r.Keys...), r.Err
	}
	keys := make([]string, 0, len(m.store))
	for k := range m.store {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements kv.KV.
func (m *Client) Close() error { return nil }
