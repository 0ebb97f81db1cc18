package srp_test

import (
	"bytes"
	"math/big"
	"testing"

	"peerlink/internal/crypto"
	"peerlink/internal/protocol/srp"
)

// serverSessionKey recomputes the server half of SRP-6a given the same
// password the client used, to cross-check CalcClientKey against an
// independent derivation of S = (A * v^u)^b mod N.
func serverSessionKey(t *testing.T, group srp.Group, salt []byte, username, password string, a, b *big.Int) []byte {
	t.Helper()
	n, g := group.N, group.G

	x := srp.CalcX(salt, username, password)
	v := crypto.Exp(g, x, n)

	k := srp.CalcK(n, g)
	bigB := new(big.Int).Mul(k, v)
	bigB.Add(bigB, crypto.Exp(g, b, n))
	bigB.Mod(bigB, n)

	bigA := srp.CalcA(a, n, g)
	u := srp.CalcU(bigA, bigB, n)

	s := new(big.Int).Exp(v, u, n)
	s.Mul(bigA, s)
	s.Mod(s, n)
	s.Exp(s, b, n)

	return crypto.IntToBytes(s, len(n.Bytes()))
}

func TestClientAndServerAgreeOnSessionSecret(t *testing.T) {
	group, ok := srp.Lookup(512)
	if !ok {
		t.Fatal("expected SRP-4096 to be whitelisted at 512 bytes")
	}
	n, g := group.N, group.G

	salt := []byte("some-salt-value-not-actually-random-in-this-test")
	username, password := "alice", "correct horse battery staple"

	a := big.NewInt(987654321)
	b := big.NewInt(123456789)

	x := srp.CalcX(salt, username, password)
	v := crypto.Exp(g, x, n)

	k := srp.CalcK(n, g)
	bigB := new(big.Int).Mul(k, v)
	bigB.Add(bigB, crypto.Exp(g, b, n))
	bigB.Mod(bigB, n)

	if !srp.VerifyBModN(bigB, n) {
		t.Fatal("server B must be nonzero mod N")
	}

	bigA := srp.CalcA(a, n, g)
	u := srp.CalcU(bigA, bigB, n)
	clientKey := srp.CalcClientKey(n, bigB, g, x, a, u)
	serverKey := serverSessionKey(t, group, salt, username, password, a, b)

	if !bytes.Equal(clientKey, serverKey) {
		t.Fatalf("client and server derived different session secrets:\nclient=%x\nserver=%x", clientKey, serverKey)
	}
}

func TestClientKeyDivergesOnWrongPassword(t *testing.T) {
	group, _ := srp.Lookup(512)
	n, g := group.N, group.G
	salt := []byte("salt")

	a := big.NewInt(42)
	b := big.NewInt(1337)

	x := srp.CalcX(salt, "alice", "correct password")
	v := crypto.Exp(g, x, n)
	k := srp.CalcK(n, g)
	bigB := new(big.Int).Mul(k, v)
	bigB.Add(bigB, crypto.Exp(g, b, n))
	bigB.Mod(bigB, n)

	bigA := srp.CalcA(a, n, g)
	u := srp.CalcU(bigA, bigB, n)

	wrongX := srp.CalcX(salt, "alice", "wrong password")
	wrongKey := srp.CalcClientKey(n, bigB, g, wrongX, a, u)
	rightKey := srp.CalcClientKey(n, bigB, g, x, a, u)

	if bytes.Equal(wrongKey, rightKey) {
		t.Fatal("client keys derived from different passwords must not match")
	}
}

func TestVerifyBModNRejectsZero(t *testing.T) {
	group, _ := srp.Lookup(512)
	if srp.VerifyBModN(big.NewInt(0), group.N) {
		t.Fatal("B == 0 must fail verification")
	}
	if srp.VerifyBModN(group.N, group.N) {
		t.Fatal("B == N (i.e. B mod N == 0) must fail verification")
	}
}

func TestLookupOnlyMatchesWhitelistedByteLengths(t *testing.T) {
	for _, n := range []int{512, 768, 1024} {
		if _, ok := srp.Lookup(n); !ok {
			t.Fatalf("expected a whitelisted group at %d bytes", n)
		}
	}
	for _, n := range []int{0, 256, 511, 1025, 2048} {
		if _, ok := srp.Lookup(n); ok {
			t.Fatalf("%d bytes should not match any whitelisted group", n)
		}
	}
}

func TestWhitelistedModuliAreDistinctAndOddWithTopBitSet(t *testing.T) {
	groups := []srp.Group{}
	for _, n := range []int{512, 768, 1024} {
		g, _ := srp.Lookup(n)
		groups = append(groups, g)

		raw := g.N.Bytes()
		if len(raw) != n {
			t.Fatalf("%s: N is %d bytes, want %d", g.Name, len(raw), n)
		}
		if raw[0]&0x80 == 0 {
			t.Fatalf("%s: top bit of N must be set", g.Name)
		}
		if g.N.Bit(0) != 1 {
			t.Fatalf("%s: N must be odd", g.Name)
		}
	}
	if groups[0].N.Cmp(groups[1].N) == 0 || groups[1].N.Cmp(groups[2].N) == 0 {
		t.Fatal("whitelisted moduli must be distinct")
	}
}
