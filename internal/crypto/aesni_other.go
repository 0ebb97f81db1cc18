//go:build !amd64 && !386

package crypto

// AESNI reports whether the CPU advertises hardware AES support. On
// architectures we don't probe, report false so ClientHello advertises
// ChaCha20-Poly1305 only.
func AESNI() bool {
	return false
}
