// Package cryptox implements the blob codec for user files: an account's
// password is stretched into an AES key with argon2id and the payload is
// sealed with AES-256-GCM. Each blob carries its own salt and nonce, so the
// only thing needed to decrypt is the owner's current password.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12

	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MB
	argonThreads = 4
	keySize      = 32 // AES-256
)

// DeriveKey stretches password material into a 32-byte AES key.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMemory, argonThreads, keySize)
}

// Encrypt seals plaintext under a key derived from secret. A fresh random
// salt and nonce are generated per call and prepended to the ciphertext:
//
//	blob = salt(16) || nonce(12) || ciphertext+tag
//
// An empty plaintext is a valid input; the resulting blob still authenticates
// the secret on decryption.
func Encrypt(plaintext, secret []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)
	nonce := common.GenerateRandByteArray(nonceSize)

	aesgcm, err := newGCM(DeriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	blob := make([]byte, 0, saltSize+nonceSize+len(plaintext)+aesgcm.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	return aesgcm.Seal(blob, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. It returns common.ErrCipher when
// the secret does not match the one used at encryption time or the blob is
// malformed or truncated.
func Decrypt(blob, secret []byte) ([]byte, error) {
	if len(blob) < saltSize+nonceSize {
		return nil, common.ErrCipher
	}
	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	ciphertext := blob[saltSize+nonceSize:]

	aesgcm, err := newGCM(DeriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrCipher
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
