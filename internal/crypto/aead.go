package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"

	"peerlink/internal/domain"
)

// ErrUnknownSuite is returned when an EncryptionSuite value names neither
// AES-256-GCM nor ChaCha20-Poly1305.
var ErrUnknownSuite = errors.New("crypto: unknown encryption suite")

// ErrDecryptFailed is returned when AEAD tag verification fails.
var ErrDecryptFailed = errors.New("crypto: decrypt failed")

// Seal authenticated-encrypts plaintext under key and iv using suite.
func Seal(suite domain.EncryptionSuite, key [32]byte, iv [12]byte, plaintext []byte) ([]byte, error) {
	aead, err := newAEAD(suite, key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, iv[:], plaintext, nil), nil
}

// Open authenticated-decrypts ciphertext under key and iv using suite.
// Tag mismatch is reported as ErrDecryptFailed.
func Open(suite domain.EncryptionSuite, key [32]byte, iv [12]byte, ciphertext []byte) ([]byte, error) {
	aead, err := newAEAD(suite, key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, iv[:], ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

func newAEAD(suite domain.EncryptionSuite, key [32]byte) (cipher.AEAD, error) {
	switch suite {
	case domain.SuiteAES256GCM:
		block, err := aes.NewCipher(key[:])
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case domain.SuiteChaCha20Poly1305:
		return chacha20poly1305.New(key[:])
	default:
		return nil, ErrUnknownSuite
	}
}
