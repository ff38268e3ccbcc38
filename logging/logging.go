package logging

import (
	sdk "github.com/tarmac-project/storage"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const capabilityName = "logger"

// Level orders log severities from most to least verbose.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// function returns the host function name for the level.
func (l Level) function() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Client exposes convenience helpers for sending log entries to the host runtime.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig sdk.RuntimeConfig

	// Level is the minimum level sent to the host. The zero value sends everything.
	Level Level

	// HostCall overrides the waPC host function used for logging operations.
	HostCall func(string, string, string, []byte) ([]byte, error)
}

// client implements Client using the configured host call entrypoint.
type client struct {
	runtime  sdk.RuntimeConfig
	level    Level
	hostCall func(string, string, string, []byte) ([]byte, error)
}

// New creates a Client that emits logs through the configured host capability.
func New(cfg Config) (Client, error) {
	runtimeCfg := cfg.SDKConfig
	if runtimeCfg.Namespace == "" {
		runtimeCfg.Namespace = sdk.DefaultNamespace
	}

	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &client{
		runtime:  runtimeCfg,
		level:    cfg.Level,
		hostCall: hostCall,
	}, nil
}

func (c *client) Info(message string)  { c.log(LevelInfo, message) }
func (c *client) Warn(message string)  { c.log(LevelWarn, message) }
func (c *client) Error(message string) { c.log(LevelError, message) }
func (c *client) Debug(message string) { c.log(LevelDebug, message) }
func (c *client) Trace(message string) { c.log(LevelTrace, message) }

func (c *client) log(level Level, message string) {
	if level < c.level {
		return
	}
	_, _ = c.hostCall(c.runtime.Namespace, capabilityName, level.function(), []byte(message))
}

type discard struct{}

// Discard returns a Client that drops every message.
func Discard() Client { return discard{} }

func (discard) Info(string)  {}
func (discard) Warn(string)  {}
func (discard) Error(string) {}
func (discard) Debug(string) {}
func (discard) Trace(string) {}
