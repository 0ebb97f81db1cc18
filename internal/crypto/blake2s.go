package crypto

import "golang.org/x/crypto/blake2s"

// Blake2s256 hashes the concatenation of parts with BLAKE2s-256.
func Blake2s256(parts ...[]byte) [32]byte {
	h := NewHasher()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum()
}

// Hasher is an incremental BLAKE2s-256 hash.
type Hasher struct {
	state interface {
		Write(p []byte) (int, error)
		Sum(b []byte) []byte
	}
}

// NewHasher returns a fresh incremental hasher.
func NewHasher() *Hasher {
	state, err := blake2s.New256(nil)
	if err != nil {
		// blake2s.New256 only errors on an oversized key; we pass none.
		panic(err)
	}
	return &Hasher{state: state}
}

// Write feeds more data into the hash.
func (h *Hasher) Write(p []byte) {
	_, _ = h.state.Write(p)
}

// Sum finalizes and returns the 32-byte digest. The hasher may continue to
// be used; blake2s.New256's Sum does not mutate state.
func (h *Hasher) Sum() [32]byte {
	var out [32]byte
	copy(out[:], h.state.Sum(nil))
	return out
}
