/*
Package items reads and writes string values in the host key-value store.

Write derives the storage key from the plaintext itself: the key is the
Keccak-256 digest of the accessor's key namespace followed by the plaintext
(see package keys). The returned Item carries both, so callers learn the key
without hashing anything themselves. Read, Update, and Delete take a key the
caller already holds. Update never rehashes; any non-empty key is honored
as-is.

Every operation is a single synchronous call against the store. Concurrent
writers are last-writer-wins.
*/
package items
