package hostmock

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Call records a single host invocation.
type Call struct {
	Namespace  string
	Capability string
	Function   string
	Payload    []byte
}

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedNamespace defines the namespace expected in the host call.
	ExpectedNamespace string

	// ExpectedCapability defines the capability expected in the host call.
	ExpectedCapability string

	// ExpectedFunction defines the function name expected in the host call.
	ExpectedFunction string

	// Error is the error to return if the mock is configured to fail.
	Error error

	// PayloadValidator validates the payload passed to the host call.
	PayloadValidator func([]byte) error

	// Response defines the response to return for the host call.
	Response func() []byte

	// Fail indicates whether the mock should return an error.
	Fail bool
}

// Mock simulates a host call interface with validation and configurable responses.
type Mock struct {
	cfg Config

	// Calls stores every invocation in order, including rejected ones.
	Calls []Call
}

// New creates a new instance of the Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	return &Mock{cfg: config}, nil
}

// HostCall simulates a host call, validating inputs and returning a response or error.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	m.Calls = append(m.Calls, Call{
		Namespace:  namespace,
		Capability: capability,
		Function:   function,
		Payload:    append([]byte(nil), payload...),
	})

	if m.cfg.Fail {
		if m.cfg.Error != nil {
			return nil, m.cfg.Error
		}
		return nil, ErrOperationFailed
	}

	if err := checkRoute(m.cfg, namespace, capability, function); err != nil {
		return nil, err
	}

	if m.cfg.PayloadValidator != nil {
		if err := m.cfg.PayloadValidator(payload); err != nil {
			return nil, err
		}
	}

	if m.cfg.Response != nil {
		return m.cfg.Response(), nil
	}

	return nil, nil
}

// checkRoute enforces the expected values that are set; blank fields match anything.
func checkRoute(cfg Config, namespace, capability, function string) error {
	if cfg.ExpectedNamespace != "" && cfg.ExpectedNamespace != namespace {
		return fmt.Errorf(
			"%w: expected namespace %s, got %s",
			ErrUnexpectedNamespace,
			cfg.ExpectedNamespace,
			namespace,
		)
	}

	if cfg.ExpectedCapability != "" && cfg.ExpectedCapability != capability {
		return fmt.Errorf(
			"%w: expected capability %s, got %s",
			ErrUnexpectedCapability,
			cfg.ExpectedCapability,
			capability,
		)
	}

	if cfg.ExpectedFunction != "" && cfg.ExpectedFunction != function {
		return fmt.Errorf("%w: expected function %s, got %s", ErrUnexpectedFunction, cfg.ExpectedFunction, function)
	}

	return nil
}
