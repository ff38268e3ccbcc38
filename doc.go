/*
Package storage provides the runtime configuration and function registration
for the storage example WebAssembly guest.

New registers the guest's exported functions with waPC. The Guest it returns
exposes the RuntimeConfig that capability clients (kv, logging, metrics) share.
DefaultNamespace is used when a namespace is not explicitly provided.

Stored items are addressed by a Keccak-256 digest of a key namespace plus the
plaintext; see the keys and items packages.
*/
package storage
