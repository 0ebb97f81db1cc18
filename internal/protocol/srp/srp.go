package srp

import (
	"math/big"

	"peerlink/internal/crypto"
)

// CalcK computes the SRP-6a multiplier k = H(N, g), with N and g each
// padded to len(N) bytes before hashing.
func CalcK(n, g *big.Int) *big.Int {
	width := len(n.Bytes())
	sum := crypto.Blake2s256(crypto.IntToBytes(n, width), crypto.IntToBytes(g, width))
	return crypto.IntFromBytes(sum[:])
}

// CalcA computes the client's public ephemeral A = g^a mod N.
func CalcA(a, n, g *big.Int) *big.Int {
	return crypto.Exp(g, a, n)
}

// CalcU computes the scrambling parameter u = H(PAD(A) || PAD(B)), each
// padded to len(N) bytes, interpreted as an integer mod N.
func CalcU(a, b, n *big.Int) *big.Int {
	width := len(n.Bytes())
	sum := crypto.Blake2s256(crypto.IntToBytes(a, width), crypto.IntToBytes(b, width))
	return crypto.Mod(crypto.IntFromBytes(sum[:]), n)
}

// CalcX computes the password hash x = H(salt || H(username || ":" || password)).
func CalcX(salt []byte, username, password string) *big.Int {
	inner := crypto.Blake2s256([]byte(username), []byte(":"), []byte(password))
	outer := crypto.Blake2s256(salt, inner[:])
	return crypto.IntFromBytes(outer[:])
}

// CalcClientKey computes the client's raw SRP session secret
// S = (B - k*g^x)^(a + u*x) mod N, returned as a big-endian integer padded
// to len(N) bytes. Callers hash S (optionally with a prior session key)
// into the 32-byte AEAD session key; CalcClientKey itself performs no
// hashing.
func CalcClientKey(n, b, g, x, a, u *big.Int) []byte {
	width := len(n.Bytes())
	k := CalcK(n, g)

	gx := crypto.Exp(g, x, n)
	kgx := new(big.Int).Mul(k, gx)
	kgx.Mod(kgx, n)

	base := new(big.Int).Sub(b, kgx)
	base.Mod(base, n)

	ux := new(big.Int).Mul(u, x)
	exp := new(big.Int).Add(a, ux)

	s := crypto.Exp(base, exp, n)
	return crypto.IntToBytes(s, width)
}

// VerifyBModN reports whether B mod N != 0, the SRP-6a sanity check that
// rejects a malicious or buggy B == 0 (mod N).
func VerifyBModN(b, n *big.Int) bool {
	return !crypto.IsZero(crypto.Mod(b, n))
}
