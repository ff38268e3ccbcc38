/*
Package mock provides an in-memory implementation of the kv.KV interface.

It can be pre-seeded with data, configured with per-operation overrides, and
it records calls for assertions in tests. Absent keys behave as they do on a
real host: Get and Delete return kv.ErrKeyNotFound.
*/
package mock
