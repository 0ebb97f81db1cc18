package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// ErrRNGFailed is returned when the system RNG cannot supply random bytes.
var ErrRNGFailed = errors.New("crypto: rng failed")

// RandBytes returns n cryptographically random bytes. A failure of the
// system RNG is reported as ErrRNGFailed.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRNGFailed, err)
	}
	return b, nil
}
