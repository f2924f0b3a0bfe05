package common

import "crypto/rand"

// GenerateRandByteArray returns size cryptographically random bytes.
// It panics if the system random source fails, which is unrecoverable anyway.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return b
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Useful for removing password material from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
