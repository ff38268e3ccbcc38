package hostmock

import (
	"fmt"
	"sort"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/kvstore"
	pb "google.golang.org/protobuf/proto"
)

const kvCapability = "kvstore"

// KVStore is an in-memory host for the kvstore capability. It decodes the
// protobuf requests a guest sends and answers with protobuf responses and
// host status codes, so guest code can be tested end to end over the wire.
type KVStore struct {
	namespace string
	data      map[string][]byte

	// FailFunctions makes the named functions ("get", "set", "delete",
	// "keys") fail at the transport level with ErrOperationFailed.
	FailFunctions map[string]bool

	// Calls stores every invocation in order.
	Calls []Call
}

// NewKVStore creates a kvstore host bound to namespace, optionally seeded.
func NewKVStore(namespace string, seed map[string][]byte) *KVStore {
	data := make(map[string][]byte, len(seed))
	for k, v := range seed {
		data[k] = append([]byte(nil), v...)
	}
	return &KVStore{namespace: namespace, data: data, FailFunctions: map[string]bool{}}
}

// Len returns the number of stored entries.
func (s *KVStore) Len() int { return len(s.data) }

// Value returns the raw bytes stored at key.
func (s *KVStore) Value(key string) ([]byte, bool) {
	v, ok := s.data[key]
	return v, ok
}

// HostCall implements the waPC host function signature.
func (s *KVStore) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	s.Calls = append(s.Calls, Call{
		Namespace:  namespace,
		Capability: capability,
		Function:   function,
		Payload:    append([]byte(nil), payload...),
	})

	if err := checkRoute(Config{ExpectedNamespace: s.namespace, ExpectedCapability: kvCapability}, namespace, capability, function); err != nil {
		return nil, err
	}

	if s.FailFunctions[function] {
		return nil, ErrOperationFailed
	}

	switch function {
	case "get":
		var req proto.KVStoreGet
		if err := pb.Unmarshal(payload, &req); err != nil {
			return pb.Marshal(&proto.KVStoreGetResponse{Status: badInput(err)})
		}
		v, ok := s.data[req.GetKey()]
		if !ok {
			return pb.Marshal(&proto.KVStoreGetResponse{Status: notFound()})
		}
		return pb.Marshal(&proto.KVStoreGetResponse{Status: ok200(), Data: v})

	case "set":
		var req proto.KVStoreSet
		if err := pb.Unmarshal(payload, &req); err != nil {
			return pb.Marshal(&proto.KVStoreSetResponse{Status: badInput(err)})
		}
		s.data[req.GetKey()] = append([]byte{}, req.GetData()...)
		return pb.Marshal(&proto.KVStoreSetResponse{Status: ok200()})

	case "delete":
		var req proto.KVStoreDelete
		if err := pb.Unmarshal(payload, &req); err != nil {
			return pb.Marshal(&proto.KVStoreDeleteResponse{Status: badInput(err)})
		}
		if _, ok := s.data[req.GetKey()]; !ok {
			return pb.Marshal(&proto.KVStoreDeleteResponse{Status: notFound()})
		}
		delete(s.data, req.GetKey())
		return pb.Marshal(&proto.KVStoreDeleteResponse{Status: ok200()})

	case "keys":
		keys := make([]string, 0, len(s.data))
		for k := range s.data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return pb.Marshal(&proto.KVStoreKeysResponse{Status: ok200(), Keys: keys})

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedFunction, function)
	}
}

func ok200() *sdkproto.Status { return &sdkproto.Status{Status: "OK", Code: 200} }

func notFound() *sdkproto.Status { return &sdkproto.Status{Status: "Key not found", Code: 404} }

func badInput(err error) *sdkproto.Status {
	return &sdkproto.Status{Status: fmt.Sprintf("invalid request: %v", err), Code: 400}
}
