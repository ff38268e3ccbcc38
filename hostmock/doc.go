/*
Package hostmock provides pretend hosts for waPC calls.

It lets guest code be tested without a Tarmac host running. Two flavours are
available.

Mock is a single-route, scripted host. It validates the namespace, capability,
and function of each call, runs an optional PayloadValidator, and returns
canned bytes or a failure:

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "kvstore",
	  ExpectedFunction:   "get",
	  PayloadValidator: func(p []byte) error {
	    // Unmarshal and assert fields here
	    return nil
	  },
	  Response: func() []byte { return okGetResponse },
	})

KVStore is a stateful in-memory kvstore host. It decodes the protobuf requests
and answers with real status codes (200, 404, 400), which makes it suitable
for end-to-end tests of the kv client and everything built on it:

	host := hostmock.NewKVStore("tarmac", nil)
	client, _ := kv.New(kv.Config{HostCall: host.HostCall})

Behavior of Mock

  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - Otherwise, HostCall enforces the Expected* values that are set. Blank
    fields match anything.
  - PayloadValidator runs when provided; then Response (when set) provides the
    return bytes, otherwise nil is returned.

Both hosts record every invocation in Calls.
*/
package hostmock
