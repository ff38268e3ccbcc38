/*
Package keys derives storage keys from a namespace and a plaintext value.

A key is the lowercase hex encoding of the Keccak-256 digest of the namespace
immediately followed by the plaintext. The same namespace and plaintext always
produce the same key; different namespaces keep applications that share one
store from addressing each other's entries.

Keccak-256 here is the original Keccak padding (as used by Ethereum), not the
FIPS-202 SHA3-256 variant; the two produce different digests.
*/
package keys
