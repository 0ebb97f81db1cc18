package types

import interfaces "peerlink/internal/domain/interfaces"

// Username is the SRP identity presented in an Identify message.
type Username string

// String returns the string form of the username.
func (u Username) String() string { return string(u) }

// IdentifyMode selects how the client proves itself to the peer.
type IdentifyMode uint8

const (
	// IdentifyAnonymous encrypts to a known peer public key; no password
	// exchange occurs.
	IdentifyAnonymous IdentifyMode = iota
	// IdentifySRP proves knowledge of a password via SRP-6a.
	IdentifySRP
)

// String returns a human-readable name for the mode.
func (m IdentifyMode) String() string {
	switch m {
	case IdentifyAnonymous:
		return "anonymous"
	case IdentifySRP:
		return "srp"
	default:
		return "unknown"
	}
}

// EncryptionSuite is a bitset of AEAD ciphers. The client advertises a mask
// of supported suites; the server selects exactly one.
type EncryptionSuite uint32

const (
	SuiteAES256GCM        EncryptionSuite = 1 << 0
	SuiteChaCha20Poly1305 EncryptionSuite = 1 << 1
)

// Has reports whether mask advertises suite s.
func (mask EncryptionSuite) Has(s EncryptionSuite) bool { return mask&s != 0 }

// Single reports whether mask names exactly one suite.
func (mask EncryptionSuite) Single() bool {
	return mask == SuiteAES256GCM || mask == SuiteChaCha20Poly1305
}

// String names the suite for logging.
func (s EncryptionSuite) String() string {
	switch s {
	case SuiteAES256GCM:
		return "AES256_GCM"
	case SuiteChaCha20Poly1305:
		return "CHACHA20_POLY1305"
	default:
		return "unknown"
	}
}

// SessionType is a bitset of requested/offered remote session kinds.
type SessionType uint32

const (
	SessionDesktopView   SessionType = 1 << 0
	SessionDesktopManage SessionType = 1 << 1
	SessionFileTransfer  SessionType = 1 << 2
)

// Allows reports whether offered and requested share at least one session
// type.
func (offered SessionType) Allows(requested SessionType) bool {
	return offered&requested != 0
}

// PeerVersion is the {major, minor, patch} version reported by the peer at
// the end of a successful handshake.
type PeerVersion struct {
	Major uint8
	Minor uint8
	Patch uint8
}

// HandshakeResult bundles what a caller needs after a successful
// handshake: the now-encrypted channel, the peer's reported version, and
// the AEAD suite both sides settled on.
type HandshakeResult struct {
	Channel     interfaces.MessageChannel
	PeerVersion PeerVersion
	Suite       EncryptionSuite
}

// ErrorCode is a stable, string-named terminal outcome of a handshake.
type ErrorCode string

const (
	Success       ErrorCode = "SUCCESS"
	NetworkError  ErrorCode = "NETWORK_ERROR"
	ProtocolError ErrorCode = "PROTOCOL_ERROR"
	AccessDenied  ErrorCode = "ACCESS_DENIED"
	SessionDenied ErrorCode = "SESSION_DENIED"
	UnknownError  ErrorCode = "UNKNOWN_ERROR"
)

// Error implements the error interface so an ErrorCode can be compared
// directly with errors.Is against the package-level sentinels above.
func (c ErrorCode) Error() string { return string(c) }
