package types

// ClientContext is the private state a client-side handshake carries across
// its message exchange: requested options, ephemeral key material, and the
// negotiated session secrets. Fields are grouped in the order they become
// meaningful during the handshake.
type ClientContext struct {
	// Requested by the caller before Start.
	Identify         IdentifyMode
	PeerPublicKey    X25519Public
	HasPeerPublicKey bool
	Username         string
	Password         []byte // cleared with crypto.Zero after use
	RequestedSession SessionType
	SupportedSuites  EncryptionSuite

	// X25519 preamble, populated only when a peer public key is configured.
	EphemeralPriv X25519Private
	EphemeralPub  X25519Public

	// Negotiated with the peer.
	Suite         EncryptionSuite
	EncryptIV     [12]byte
	DecryptIV     [12]byte
	SessionKey    [32]byte
	HasSessionKey bool

	// Reported by the peer at the end of a successful handshake.
	AllowedSessions SessionType
	PeerVersion     PeerVersion
}
