package handshake

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedMessage is returned by Unmarshal methods when a payload is
// truncated or internally inconsistent.
var ErrMalformedMessage = errors.New("handshake: malformed message")

const (
	tagClientHello          byte = 1
	tagServerHello          byte = 2
	tagSrpIdentify          byte = 3
	tagSrpServerKeyExchange byte = 4
	tagSrpClientKeyExchange byte = 5
	tagSessionChallenge     byte = 6
	tagSessionResponse      byte = 7
)

func putField(buf *bytes.Buffer, field []byte) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(field)))
	buf.Write(length[:])
	buf.Write(field)
}

// readExact fills buf or fails: bytes.Reader.Read returns a short count
// with a nil error whenever at least one byte remains, so a plain Read
// would silently zero-pad a truncated field instead of rejecting it.
func readExact(r *bytes.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return nil
}

func getField(r *bytes.Reader) ([]byte, error) {
	var length [4]byte
	if err := readExact(r, length[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(length[:])
	// r.Len() is the number of unread bytes in the already-framed payload;
	// a field claiming more than that is malformed, not merely short, and
	// must be rejected before the allocation below ever happens.
	if int64(n) > int64(r.Len()) {
		return nil, fmt.Errorf("%w: field length %d exceeds %d remaining bytes", ErrMalformedMessage, n, r.Len())
	}
	field := make([]byte, n)
	if n > 0 {
		if err := readExact(r, field); err != nil {
			return nil, err
		}
	}
	return field, nil
}

func expectTag(r *bytes.Reader, want byte) error {
	got, err := r.ReadByte()
	if err != nil || got != want {
		return ErrMalformedMessage
	}
	return nil
}

// ClientHelloMsg is the client's opening message.
type ClientHelloMsg struct {
	Encryption uint32
	Identify   uint8
	PublicKey  []byte // empty unless a peer public key is configured
	IV         []byte // empty unless PublicKey is set
}

func (m ClientHelloMsg) MarshalBinary() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagClientHello)
	var enc [4]byte
	binary.BigEndian.PutUint32(enc[:], m.Encryption)
	buf.Write(enc[:])
	buf.WriteByte(m.Identify)
	putField(&buf, m.PublicKey)
	putField(&buf, m.IV)
	return buf.Bytes()
}

func UnmarshalClientHello(data []byte) (ClientHelloMsg, error) {
	r := bytes.NewReader(data)
	var m ClientHelloMsg
	if err := expectTag(r, tagClientHello); err != nil {
		return m, err
	}
	var enc [4]byte
	if err := readExact(r, enc[:]); err != nil {
		return m, err
	}
	m.Encryption = binary.BigEndian.Uint32(enc[:])
	ident, err := r.ReadByte()
	if err != nil {
		return m, ErrMalformedMessage
	}
	m.Identify = ident
	if m.PublicKey, err = getField(r); err != nil {
		return m, err
	}
	if m.IV, err = getField(r); err != nil {
		return m, err
	}
	return m, nil
}

// ServerHelloMsg is the peer's reply to ClientHello.
type ServerHelloMsg struct {
	Encryption uint32
	IV         []byte // empty iff no session key was derived from a public-key preamble
}

func (m ServerHelloMsg) MarshalBinary() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagServerHello)
	var enc [4]byte
	binary.BigEndian.PutUint32(enc[:], m.Encryption)
	buf.Write(enc[:])
	putField(&buf, m.IV)
	return buf.Bytes()
}

func UnmarshalServerHello(data []byte) (ServerHelloMsg, error) {
	r := bytes.NewReader(data)
	var m ServerHelloMsg
	if err := expectTag(r, tagServerHello); err != nil {
		return m, err
	}
	var enc [4]byte
	if err := readExact(r, enc[:]); err != nil {
		return m, err
	}
	m.Encryption = binary.BigEndian.Uint32(enc[:])
	var err error
	if m.IV, err = getField(r); err != nil {
		return m, err
	}
	return m, nil
}

// SrpIdentifyMsg names the SRP identity; the password is never sent.
type SrpIdentifyMsg struct {
	Username string
}

func (m SrpIdentifyMsg) MarshalBinary() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagSrpIdentify)
	putField(&buf, []byte(m.Username))
	return buf.Bytes()
}

func UnmarshalSrpIdentify(data []byte) (SrpIdentifyMsg, error) {
	r := bytes.NewReader(data)
	var m SrpIdentifyMsg
	if err := expectTag(r, tagSrpIdentify); err != nil {
		return m, err
	}
	username, err := getField(r)
	if err != nil {
		return m, err
	}
	m.Username = string(username)
	return m, nil
}

// SrpServerKeyExchangeMsg carries the SRP group, salt, and B.
type SrpServerKeyExchangeMsg struct {
	N    []byte
	G    []byte
	Salt []byte
	B    []byte
	IV   []byte
}

func (m SrpServerKeyExchangeMsg) MarshalBinary() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagSrpServerKeyExchange)
	putField(&buf, m.N)
	putField(&buf, m.G)
	putField(&buf, m.Salt)
	putField(&buf, m.B)
	putField(&buf, m.IV)
	return buf.Bytes()
}

func UnmarshalSrpServerKeyExchange(data []byte) (SrpServerKeyExchangeMsg, error) {
	r := bytes.NewReader(data)
	var m SrpServerKeyExchangeMsg
	if err := expectTag(r, tagSrpServerKeyExchange); err != nil {
		return m, err
	}
	var err error
	if m.N, err = getField(r); err != nil {
		return m, err
	}
	if m.G, err = getField(r); err != nil {
		return m, err
	}
	if m.Salt, err = getField(r); err != nil {
		return m, err
	}
	if m.B, err = getField(r); err != nil {
		return m, err
	}
	if m.IV, err = getField(r); err != nil {
		return m, err
	}
	return m, nil
}

// SrpClientKeyExchangeMsg carries the client's A and fresh encrypt IV.
type SrpClientKeyExchangeMsg struct {
	A  []byte
	IV []byte
}

func (m SrpClientKeyExchangeMsg) MarshalBinary() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagSrpClientKeyExchange)
	putField(&buf, m.A)
	putField(&buf, m.IV)
	return buf.Bytes()
}

func UnmarshalSrpClientKeyExchange(data []byte) (SrpClientKeyExchangeMsg, error) {
	r := bytes.NewReader(data)
	var m SrpClientKeyExchangeMsg
	if err := expectTag(r, tagSrpClientKeyExchange); err != nil {
		return m, err
	}
	var err error
	if m.A, err = getField(r); err != nil {
		return m, err
	}
	if m.IV, err = getField(r); err != nil {
		return m, err
	}
	return m, nil
}

// SessionChallengeMsg offers the session types the peer allows and reports
// its own version.
type SessionChallengeMsg struct {
	SessionTypes uint32
	Major, Minor, Patch uint8
}

func (m SessionChallengeMsg) MarshalBinary() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagSessionChallenge)
	var types [4]byte
	binary.BigEndian.PutUint32(types[:], m.SessionTypes)
	buf.Write(types[:])
	buf.WriteByte(m.Major)
	buf.WriteByte(m.Minor)
	buf.WriteByte(m.Patch)
	return buf.Bytes()
}

func UnmarshalSessionChallenge(data []byte) (SessionChallengeMsg, error) {
	r := bytes.NewReader(data)
	var m SessionChallengeMsg
	if err := expectTag(r, tagSessionChallenge); err != nil {
		return m, err
	}
	var types [4]byte
	if err := readExact(r, types[:]); err != nil {
		return m, err
	}
	m.SessionTypes = binary.BigEndian.Uint32(types[:])
	var err error
	if m.Major, err = r.ReadByte(); err != nil {
		return m, ErrMalformedMessage
	}
	if m.Minor, err = r.ReadByte(); err != nil {
		return m, ErrMalformedMessage
	}
	if m.Patch, err = r.ReadByte(); err != nil {
		return m, ErrMalformedMessage
	}
	return m, nil
}

// SessionResponseMsg echoes the requested session type.
type SessionResponseMsg struct {
	SessionType uint32
}

func (m SessionResponseMsg) MarshalBinary() []byte {
	var buf bytes.Buffer
	buf.WriteByte(tagSessionResponse)
	var t [4]byte
	binary.BigEndian.PutUint32(t[:], m.SessionType)
	buf.Write(t[:])
	return buf.Bytes()
}

func UnmarshalSessionResponse(data []byte) (SessionResponseMsg, error) {
	r := bytes.NewReader(data)
	var m SessionResponseMsg
	if err := expectTag(r, tagSessionResponse); err != nil {
		return m, err
	}
	var t [4]byte
	if err := readExact(r, t[:]); err != nil {
		return m, err
	}
	m.SessionType = binary.BigEndian.Uint32(t[:])
	return m, nil
}
