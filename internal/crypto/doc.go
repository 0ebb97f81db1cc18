// Package crypto exposes the primitives the handshake and relay build on.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519, X25519Agree)
//   - BLAKE2s-256 hashing, one-shot and incremental (Blake2s256, Hasher)
//   - AEAD seal/open over AES-256-GCM and ChaCha20-Poly1305 (Seal, Open)
//   - Cryptographic RNG (RandBytes)
//   - Fixed-width big-integer helpers for SRP (IntFromBytes, IntToBytes)
//   - An AES-NI runtime probe (AESNI)
//   - Best-effort memory wiping for sensitive byte slices (Zero)
//
// X25519 keys use the fixed-size array types defined in internal/domain and
// digests are [32]byte; AEAD output, random bytes and big-integer encodings
// are returned as slices. Callers should treat returned secrets as
// sensitive and rely on Zero when practical to reduce their lifetime in
// memory.
package crypto
