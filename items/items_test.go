package items

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	metricsproto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	sdk "github.com/tarmac-project/storage"
	"github.com/tarmac-project/storage/hostmock"
	"github.com/tarmac-project/storage/keys"
	"github.com/tarmac-project/storage/kv"
	kvmock "github.com/tarmac-project/storage/kv/mock"
	"github.com/tarmac-project/storage/logging"
	"github.com/tarmac-project/storage/metrics"
)

// valueKey is Keccak-256("storage_example" + "value").
const valueKey = "62bac890944ae09fcbb58dfc83a209e5146a05112f8e56a630b0b0bc523efcdc"

func newAccessor(t testing.TB, store kv.KV) *Accessor {
	t.Helper()
	a, err := New(Config{KV: store})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return a
}

// wireAccessor builds an Accessor on the real kv client over an in-memory host.
func wireAccessor(t testing.TB) (*Accessor, *hostmock.KVStore) {
	t.Helper()
	host := hostmock.NewKVStore(sdk.DefaultNamespace, nil)
	client, err := kv.New(kv.Config{HostCall: host.HostCall})
	if err != nil {
		t.Fatalf("failed to create KV client: %v", err)
	}
	return newAccessor(t, client), host
}

func TestNew(t *testing.T) {
	t.Run("Nil KV", func(t *testing.T) {
		if _, err := New(Config{}); !errors.Is(err, ErrKVNil) {
			t.Fatalf("expected ErrKVNil, got %v", err)
		}
	})

	t.Run("Default Namespace", func(t *testing.T) {
		a := newAccessor(t, kvmock.New(kvmock.Config{}))
		if a.KeyNamespace() != DefaultKeyNamespace {
			t.Fatalf("expected namespace %q, got %q", DefaultKeyNamespace, a.KeyNamespace())
		}
	})

	t.Run("Custom Namespace", func(t *testing.T) {
		a, err := New(Config{KeyNamespace: "other_ns", KV: kvmock.New(kvmock.Config{})})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if a.Key("value") != keys.Derive("other_ns", "value") {
			t.Fatalf("expected key derived under other_ns, got %s", a.Key("value"))
		}
	})
}

func TestScenarios(t *testing.T) {
	t.Run("Write Then Read", func(t *testing.T) {
		a, _ := wireAccessor(t)

		item, err := a.Write("value")
		if err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
		if item != (Item{Key: valueKey, Data: "value"}) {
			t.Fatalf("unexpected item %+v", item)
		}

		got, err := a.Read(item.Key)
		if err != nil {
			t.Fatalf("Read returned error: %v", err)
		}
		if got != "value" {
			t.Fatalf("expected %q, got %q", "value", got)
		}
	})

	t.Run("Write Then Clear", func(t *testing.T) {
		a, _ := wireAccessor(t)

		assertLen(t, a, 0)
		if _, err := a.Write("value"); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
		assertLen(t, a, 1)
		if err := a.Clear(); err != nil {
			t.Fatalf("Clear returned error: %v", err)
		}
		assertLen(t, a, 0)
	})

	t.Run("Write Then Delete", func(t *testing.T) {
		a, _ := wireAccessor(t)

		item, err := a.Write("value")
		if err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
		assertLen(t, a, 1)

		a.Delete(item.Key)
		assertLen(t, a, 0)

		if _, err := a.Read(item.Key); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRead(t *testing.T) {
	tt := []struct {
		name    string
		setup   func(*kvmock.Client)
		key     string
		want    string
		wantErr []error
	}{
		{
			name:  "found",
			setup: func(m *kvmock.Client) { _ = m.Set("k", []byte("v")) },
			key:   "k",
			want:  "v",
		},
		{
			name:    "not found",
			setup:   func(*kvmock.Client) {},
			key:     "missing",
			wantErr: []error{ErrNotFound},
		},
		{
			name:    "backend failure",
			setup:   func(m *kvmock.Client) { m.OnGet("k").ReturnError(kv.ErrHostCall) },
			key:     "k",
			wantErr: []error{ErrBackend, kv.ErrHostCall},
		},
		{
			name:    "empty key",
			setup:   func(*kvmock.Client) {},
			key:     "",
			wantErr: []error{ErrBackend, kv.ErrInvalidKey},
		},
		{
			name:    "invalid encoding",
			setup:   func(m *kvmock.Client) { m.OnGet("k").ReturnValue([]byte{0xff, 0xfe}) },
			key:     "k",
			wantErr: []error{ErrBackend, ErrInvalidEncoding},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			m := kvmock.New(kvmock.Config{})
			tc.setup(m)
			a := newAccessor(t, m)

			got, err := a.Read(tc.key)
			for _, want := range tc.wantErr {
				if !errors.Is(err, want) {
					t.Fatalf("expected error %v, got %v", want, err)
				}
			}
			if len(tc.wantErr) == 0 && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	t.Run("not found is not a backend error", func(t *testing.T) {
		a := newAccessor(t, kvmock.New(kvmock.Config{}))
		if _, err := a.Read("missing"); errors.Is(err, ErrBackend) {
			t.Fatalf("expected plain ErrNotFound, got %v", err)
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("Overwrites", func(t *testing.T) {
		m := kvmock.New(kvmock.Config{Seed: map[string][]byte{valueKey: []byte("stale")}})
		a := newAccessor(t, m)

		if _, err := a.Write("value"); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
		if v, _ := m.Value(valueKey); string(v) != "value" {
			t.Fatalf("expected overwrite, got %q", v)
		}
	})

	t.Run("Empty Plaintext", func(t *testing.T) {
		a, host := wireAccessor(t)

		item, err := a.Write("")
		if err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
		if item.Key != keys.Derive(DefaultKeyNamespace, "") {
			t.Fatalf("unexpected key %s", item.Key)
		}
		if host.Len() != 1 {
			t.Fatalf("expected one entry, got %d", host.Len())
		}
		if got, err := a.Read(item.Key); err != nil || got != "" {
			t.Fatalf("expected empty value, got %q, %v", got, err)
		}
	})

	t.Run("Backend Failure", func(t *testing.T) {
		m := kvmock.New(kvmock.Config{})
		m.OnSet(valueKey).ReturnError(errors.New("quota exceeded"))
		a := newAccessor(t, m)

		item, err := a.Write("value")
		if !errors.Is(err, ErrBackend) {
			t.Fatalf("expected ErrBackend, got %v", err)
		}
		if item != (Item{}) {
			t.Fatalf("expected zero item on failure, got %+v", item)
		}
		if m.Len() != 0 {
			t.Fatalf("expected nothing stored, got %d entries", m.Len())
		}
	})

	t.Run("No Retry", func(t *testing.T) {
		a, host := wireAccessor(t)
		host.FailFunctions["set"] = true

		if _, err := a.Write("value"); !errors.Is(err, kv.ErrHostCall) {
			t.Fatalf("expected ErrHostCall, got %v", err)
		}
		if len(host.Calls) != 1 {
			t.Fatalf("expected a single host call, got %d", len(host.Calls))
		}
	})

	t.Run("Distinct Entries", func(t *testing.T) {
		a, host := wireAccessor(t)

		i1, _ := a.Write("one")
		i2, _ := a.Write("two")
		if i1.Key == i2.Key {
			t.Fatalf("expected distinct keys, got %s twice", i1.Key)
		}
		if host.Len() != 2 {
			t.Fatalf("expected 2 entries, got %d", host.Len())
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("Arbitrary Key Honored", func(t *testing.T) {
		a, host := wireAccessor(t)

		if err := a.Update("my-own-key", "v1"); err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if _, ok := host.Value("my-own-key"); !ok {
			t.Fatal("expected entry under the caller's key")
		}
		if got, _ := a.Read("my-own-key"); got != "v1" {
			t.Fatalf("expected v1, got %q", got)
		}
	})

	t.Run("Overwrites Written Item", func(t *testing.T) {
		a, host := wireAccessor(t)

		item, _ := a.Write("value")
		if err := a.Update(item.Key, "changed"); err != nil {
			t.Fatalf("Update returned error: %v", err)
		}
		if got, _ := a.Read(item.Key); got != "changed" {
			t.Fatalf("expected changed, got %q", got)
		}
		if host.Len() != 1 {
			t.Fatalf("expected update in place, got %d entries", host.Len())
		}
	})

	t.Run("Backend Failure", func(t *testing.T) {
		m := kvmock.New(kvmock.Config{})
		m.OnSet("k").ReturnError(kv.ErrHostError)
		a := newAccessor(t, m)

		if err := a.Update("k", "v"); !errors.Is(err, ErrBackend) || !errors.Is(err, kv.ErrHostError) {
			t.Fatalf("expected ErrBackend wrapping ErrHostError, got %v", err)
		}
	})

	t.Run("Empty Key", func(t *testing.T) {
		a := newAccessor(t, kvmock.New(kvmock.Config{}))
		if err := a.Update("", "v"); !errors.Is(err, ErrBackend) {
			t.Fatalf("expected ErrBackend, got %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		a, _ := wireAccessor(t)

		item, _ := a.Write("value")
		a.Delete(item.Key)
		a.Delete(item.Key)
		assertLen(t, a, 0)
	})

	t.Run("Failure Is Logged", func(t *testing.T) {
		m := kvmock.New(kvmock.Config{Seed: map[string][]byte{"k": []byte("v")}})
		m.OnDelete("k").ReturnError(kv.ErrHostCall)
		logs := &recordingLogger{}
		a, err := New(Config{KV: m, Logger: logs})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}

		a.Delete("k")

		if len(logs.warn) != 1 || !strings.Contains(logs.warn[0], `"k"`) {
			t.Fatalf("expected one warning naming the key, got %v", logs.warn)
		}
	})

	t.Run("Absent Key Is Silent", func(t *testing.T) {
		logs := &recordingLogger{}
		a, _ := New(Config{KV: kvmock.New(kvmock.Config{}), Logger: logs})

		a.Delete("missing")

		if len(logs.warn) != 0 || len(logs.error) != 0 {
			t.Fatalf("expected no logs, got warn=%v error=%v", logs.warn, logs.error)
		}
	})
}

func TestClear(t *testing.T) {
	t.Run("Empties Store", func(t *testing.T) {
		seed := map[string][]byte{}
		for i := range 10 {
			seed[fmt.Sprintf("k%d", i)] = []byte("v")
		}
		m := kvmock.New(kvmock.Config{Seed: seed})
		a := newAccessor(t, m)

		if err := a.Clear(); err != nil {
			t.Fatalf("Clear returned error: %v", err)
		}
		if m.Len() != 0 {
			t.Fatalf("expected empty store, got %d", m.Len())
		}
	})

	t.Run("Empty Store", func(t *testing.T) {
		a, _ := wireAccessor(t)
		if err := a.Clear(); err != nil {
			t.Fatalf("Clear returned error: %v", err)
		}
		assertLen(t, a, 0)
	})

	t.Run("Vanished Key Ignored", func(t *testing.T) {
		m := kvmock.New(kvmock.Config{Seed: map[string][]byte{"a": []byte("1")}})
		m.OnKeys().ReturnKeys([]string{"a", "gone"})
		a := newAccessor(t, m)

		if err := a.Clear(); err != nil {
			t.Fatalf("Clear returned error: %v", err)
		}
	})

	t.Run("Listing Failure", func(t *testing.T) {
		m := kvmock.New(kvmock.Config{})
		m.OnKeys().ReturnError(kv.ErrHostCall)
		logs := &recordingLogger{}
		a, _ := New(Config{KV: m, Logger: logs})

		if err := a.Clear(); !errors.Is(err, ErrBackend) {
			t.Fatalf("expected ErrBackend, got %v", err)
		}
		if len(logs.error) != 1 {
			t.Fatalf("expected one error log, got %v", logs.error)
		}
	})

	t.Run("Delete Failure Aborts", func(t *testing.T) {
		m := kvmock.New(kvmock.Config{Seed: map[string][]byte{"a": []byte("1"), "b": []byte("2"), "c": []byte("3")}})
		m.OnDelete("b").ReturnError(kv.ErrHostError)
		a := newAccessor(t, m)

		if err := a.Clear(); !errors.Is(err, ErrBackend) {
			t.Fatalf("expected ErrBackend, got %v", err)
		}
		last := m.Calls[len(m.Calls)-1]
		if last.Op != kvmock.OpDelete || last.Key != "b" {
			t.Fatalf("expected clear to stop at b, last call %+v", last)
		}
	})
}

func TestLen(t *testing.T) {
	m := kvmock.New(kvmock.Config{})
	m.OnKeys().ReturnError(kv.ErrHostCall)
	a := newAccessor(t, m)

	if _, err := a.Len(); !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
}

func TestMetrics(t *testing.T) {
	var names []string
	host, _ := hostmock.New(hostmock.Config{ExpectedCapability: "metrics"})
	mc, err := metrics.New(metrics.Config{HostCall: func(ns, capability, fn string, payload []byte) ([]byte, error) {
		names = append(names, fn)
		return host.HostCall(ns, capability, fn, payload)
	}})
	if err != nil {
		t.Fatalf("metrics.New returned error: %v", err)
	}

	a, err := New(Config{KV: kvmock.New(kvmock.Config{}), Metrics: mc})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := a.Write("value"); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if _, err := a.Read("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// write counter + size histogram, read counter; a miss is not an error
	want := []string{"counter", "histogram", "counter"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("expected metric calls %v, got %v", want, names)
	}
}

func TestErrorCounter(t *testing.T) {
	var counted []string
	mc, err := metrics.New(metrics.Config{HostCall: func(_, _, fn string, payload []byte) ([]byte, error) {
		var req metricsproto.MetricsCounter
		if fn == "counter" && req.UnmarshalVT(payload) == nil {
			counted = append(counted, req.GetName())
		}
		return nil, nil
	}})
	if err != nil {
		t.Fatalf("metrics.New returned error: %v", err)
	}

	m := kvmock.New(kvmock.Config{})
	m.OnGet("broken").ReturnError(kv.ErrHostCall)
	m.OnGet("garbled").ReturnValue([]byte{0xff})
	a, err := New(Config{KV: m, Metrics: mc})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tt := []struct {
		name       string
		key        string
		wantErr    error
		wantErrors int
	}{
		{"miss", "missing", ErrNotFound, 0},
		{"backend failure", "broken", ErrBackend, 1},
		{"invalid encoding", "garbled", ErrBackend, 1},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			counted = nil
			if _, err := a.Read(tc.key); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			got := 0
			for _, name := range counted {
				if name == "storage_errors" {
					got++
				}
			}
			if got != tc.wantErrors {
				t.Fatalf("expected %d storage_errors increments, got %d (%v)", tc.wantErrors, got, counted)
			}
		})
	}
}

func assertLen(t *testing.T, a *Accessor, want int) {
	t.Helper()
	n, err := a.Len()
	if err != nil {
		t.Fatalf("Len returned error: %v", err)
	}
	if n != want {
		t.Fatalf("expected %d entries, got %d", want, n)
	}
}

type recordingLogger struct {
	logging.Client
	warn  []string
	error []string
}

func (l *recordingLogger) Warn(m string)  { l.warn = append(l.warn, m) }
func (l *recordingLogger) Error(m string) { l.error = append(l.error, m) }
func (l *recordingLogger) Debug(string)   {}
