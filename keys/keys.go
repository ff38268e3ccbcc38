package keys

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

const (
	// Size is the digest length in bytes.
	Size = 32

	// HexSize is the length of a derived key in characters.
	HexSize = Size * 2
)

// Derive returns hex(Keccak-256(namespace ∥ plaintext)).
func Derive(namespace, plaintext string) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(namespace))
	_, _ = h.Write([]byte(plaintext))
	return hex.EncodeToString(h.Sum(nil))
}

// Valid reports whether key has the shape of a derived key.
func Valid(key string) bool {
	if len(key) != HexSize {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
