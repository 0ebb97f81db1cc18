//go:build amd64 || 386

package crypto

import "golang.org/x/sys/cpu"

// AESNI reports whether the CPU advertises hardware AES support. ClientHello
// uses this to decide whether to advertise AES-256-GCM alongside
// ChaCha20-Poly1305.
func AESNI() bool {
	return cpu.X86.HasAES
}
