package handshake_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"peerlink/internal/protocol/handshake"
)

// corruptFieldLength rewrites the 4-byte length prefix of the field at
// byteOffset (within an already-marshaled message) to claim newLen bytes,
// without actually growing or shrinking the payload that follows.
func corruptFieldLength(data []byte, byteOffset int, newLen uint32) []byte {
	out := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(out[byteOffset:byteOffset+4], newLen)
	return out
}

func TestUnmarshalRejectsFieldLengthLongerThanPayload(t *testing.T) {
	msg := handshake.SrpIdentifyMsg{Username: "alice"}
	data := msg.MarshalBinary()

	// Username's length prefix starts right after the 1-byte tag.
	corrupted := corruptFieldLength(data, 1, 1<<20)

	if _, err := handshake.UnmarshalSrpIdentify(corrupted); err == nil {
		t.Fatal("expected a claimed field length past the end of the payload to be rejected")
	}
}

func TestUnmarshalRejectsFieldLengthOneByteBeyondWhatRemains(t *testing.T) {
	// IV is the last field in the message, so inflating its length by even
	// one byte leaves nothing left to satisfy the read: the bound check
	// against r.Len() must catch this before attempting the read, not just
	// the egregiously large claims covered by the test above.
	msg := handshake.SrpClientKeyExchangeMsg{A: bytes.Repeat([]byte{0xAB}, 64), IV: make([]byte, 12)}
	data := msg.MarshalBinary()

	// IV's length prefix starts after tag(1) + A's length(4) + A(64 bytes).
	ivLengthOffset := 1 + 4 + 64
	corrupted := corruptFieldLength(data, ivLengthOffset, 13)

	_, err := handshake.UnmarshalSrpClientKeyExchange(corrupted)
	if err == nil {
		t.Fatal("expected a field length exceeding the remaining payload to be rejected")
	}
}

func TestUnmarshalRejectsTruncatedFixedWidthHeader(t *testing.T) {
	msg := handshake.ServerHelloMsg{Encryption: 1, IV: make([]byte, 12)}
	data := msg.MarshalBinary()

	// Cut the message off inside the 4-byte Encryption field: a short
	// bytes.Reader.Read would return a nil error here and leave the field
	// partially zeroed instead of failing.
	truncated := data[:3]

	if _, err := handshake.UnmarshalServerHello(truncated); err == nil {
		t.Fatal("expected a truncated fixed-width field to be rejected")
	}
}

func TestUnmarshalRoundTripsWellFormedMessages(t *testing.T) {
	hello := handshake.ClientHelloMsg{Encryption: 3, Identify: 1, PublicKey: bytes.Repeat([]byte{1}, 32), IV: bytes.Repeat([]byte{2}, 12)}
	got, err := handshake.UnmarshalClientHello(hello.MarshalBinary())
	if err != nil {
		t.Fatal(err)
	}
	if got.Encryption != hello.Encryption || got.Identify != hello.Identify {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, hello)
	}
	if !bytes.Equal(got.PublicKey, hello.PublicKey) || !bytes.Equal(got.IV, hello.IV) {
		t.Fatalf("round trip field mismatch: got %+v, want %+v", got, hello)
	}
}
