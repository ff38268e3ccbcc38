package kv

import (
	"errors"

	proto "github.com/tarmac-project/protobuf-go/sdk/kvstore"
	sdk "github.com/tarmac-project/storage"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "kvstore"
	fnGet          = "get"
	fnSet          = "set"
	fnDelete       = "delete"
	fnKeys         = "keys"
)

// KV is the key-value capability interface.
type KV interface {
	// Get returns the value stored at key or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Set stores value at key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Hosts report ErrKeyNotFound for absent keys.
	Delete(key string) error

	// Keys lists every key visible to the guest.
	Keys() ([]string, error)

	// Close releases resources held by the client.
	Close() error
}

// HostCall defines the waPC host function signature used by KV operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig sdk.RuntimeConfig

	// HostCall overrides the waPC host function used for KV operations.
	HostCall HostCall
}

var (
	// ErrInvalidKey indicates an empty key.
	ErrInvalidKey = errors.New("key is invalid")

	// ErrInvalidValue indicates a nil value.
	ErrInvalidValue = errors.New("value is invalid")

	// ErrKeyNotFound indicates the key does not exist in the store.
	ErrKeyNotFound = errors.New("key not found")

	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to marshal request")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")

	// Host errors are re-exported so callers only need this package.
	ErrHostCall            = sdk.ErrHostCall
	ErrHostResponseInvalid = sdk.ErrHostResponseInvalid
	ErrHostError           = sdk.ErrHostError
)

// vtRequest and vtResponse are implemented by the generated vtprotobuf marshalers.
type vtRequest interface {
	MarshalVT() ([]byte, error)
}

type vtResponse interface {
	UnmarshalVT([]byte) error
}

// Client is the KV capability client implementation.
type Client struct {
	runtime  sdk.RuntimeConfig
	hostCall HostCall
}

// Ensure Client satisfies the KV interface at compile time.
var _ KV = (*Client)(nil)

// New creates a KV client with namespace defaults and optional host-call override.
func New(config Config) (*Client, error) {
	runtime := config.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = sdk.DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &Client{runtime: runtime, hostCall: hostCall}, nil
}

// Get fetches the value stored at key.
func (c *Client) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	var resp proto.KVStoreGetResponse
	if err := c.call(fnGet, &proto.KVStoreGet{Key: key}, &resp); err != nil {
		return nil, err
	}

	if err := checkStatus(resp.GetStatus()); err != nil {
		return nil, err
	}

	return resp.GetData(), nil
}

// Set stores value at key.
func (c *Client) Set(key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if value == nil {
		return ErrInvalidValue
	}

	var resp proto.KVStoreSetResponse
	if err := c.call(fnSet, &proto.KVStoreSet{Key: key, Data: value}, &resp); err != nil {
		return err
	}

	return checkStatus(resp.GetStatus())
}

// Delete removes key from the store.
func (c *Client) Delete(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	var resp proto.KVStoreDeleteResponse
	if err := c.call(fnDelete, &proto.KVStoreDelete{Key: key}, &resp); err != nil {
		return err
	}

	return checkStatus(resp.GetStatus())
}

// Keys lists the keys in the store.
func (c *Client) Keys() ([]string, error) {
	var resp proto.KVStoreKeysResponse
	if err := c.call(fnKeys, &proto.KVStoreKeys{ReturnProto: true}, &resp); err != nil {
		return nil, err
	}

	if err := checkStatus(resp.GetStatus()); err != nil {
		return nil, err
	}

	return resp.GetKeys(), nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	return nil
}

// call marshals req, performs the host call, and unmarshals the reply into resp.
func (c *Client) call(fn string, req vtRequest, resp vtResponse) error {
	b, err := req.MarshalVT()
	if err != nil {
		return errors.Join(ErrMarshalRequest, err)
	}

	respBytes, err := c.hostCall(c.runtime.Namespace, capabilityName, fn, b)
	if err != nil {
		return errors.Join(sdk.ErrHostCall, err)
	}

	if err := resp.UnmarshalVT(respBytes); err != nil {
		return errors.Join(sdk.ErrHostResponseInvalid, ErrUnmarshalResponse, err)
	}

	return nil
}
