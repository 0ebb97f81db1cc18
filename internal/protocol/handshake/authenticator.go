package handshake

import (
	"sync"

	"peerlink/internal/crypto"
	"peerlink/internal/domain"
	"peerlink/internal/protocol/srp"
)

// Callback reports the terminal outcome of a Start call. It fires exactly
// once.
type Callback func(domain.ErrorCode)

// Logger is the minimal structured-logging surface the authenticator uses.
// app.Logger satisfies it without either package importing the other.
type Logger interface {
	Printf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// Authenticator drives the client side of the handshake described in
// peerlink's protocol design: an optional X25519 ECDH preamble followed by
// an SRP-6a password exchange, promoted to an AEAD session key.
//
// An Authenticator is used once: construct with New, configure with the
// Set* methods, call Start, and after the callback fires with
// domain.Success call TakeChannel.
type Authenticator struct {
	mu sync.Mutex

	ctx     domain.ClientContext
	visited map[State]bool
	state   State

	channel       domain.MessageChannel
	callback      Callback
	callbackFired bool

	log Logger
}

var _ domain.ChannelListener = (*Authenticator)(nil)

// New returns an unconfigured Authenticator ready for Set* calls.
func New() *Authenticator {
	return &Authenticator{
		state:   StateSendClientHello,
		visited: map[State]bool{},
		log:     nopLogger{},
	}
}

// SetLogger installs a logger for diagnostic output. The default is silent.
func (a *Authenticator) SetLogger(l Logger) {
	if l != nil {
		a.log = l
	}
}

func (a *Authenticator) SetIdentify(mode domain.IdentifyMode) { a.ctx.Identify = mode }

func (a *Authenticator) SetPeerPublicKey(pub domain.X25519Public) {
	a.ctx.PeerPublicKey = pub
	a.ctx.HasPeerPublicKey = true
}

func (a *Authenticator) SetUsername(username string) { a.ctx.Username = username }

func (a *Authenticator) SetPassword(password string) { a.ctx.Password = []byte(password) }

func (a *Authenticator) SetSessionType(t domain.SessionType) { a.ctx.RequestedSession = t }

// PeerVersion returns the version the peer reported in SessionChallenge.
// Meaningful only after a successful handshake.
func (a *Authenticator) PeerVersion() domain.PeerVersion { return a.ctx.PeerVersion }

// TakeChannel returns the channel with AEAD installed, transferring
// ownership to the caller. It succeeds only once FINISHED has been reached.
func (a *Authenticator) TakeChannel() (domain.MessageChannel, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateFinished || a.channel == nil {
		return nil, false
	}
	ch := a.channel
	a.channel = nil
	return ch, true
}

// Result bundles TakeChannel, PeerVersion and the negotiated suite into a
// single call for callers that just want to move on to using the channel.
func (a *Authenticator) Result() (domain.HandshakeResult, bool) {
	a.mu.Lock()
	suite := a.ctx.Suite
	version := a.ctx.PeerVersion
	a.mu.Unlock()

	ch, ok := a.TakeChannel()
	if !ok {
		return domain.HandshakeResult{}, false
	}
	return domain.HandshakeResult{Channel: ch, PeerVersion: version, Suite: suite}, true
}

// Start takes ownership of ch and begins the handshake. callback is invoked
// exactly once, from whatever goroutine delivers the terminating event.
func (a *Authenticator) Start(ch domain.MessageChannel, callback Callback) {
	a.channel = ch
	a.callback = callback
	a.visited[StateSendClientHello] = true

	if a.ctx.Identify == domain.IdentifyAnonymous && !a.ctx.HasPeerPublicKey {
		// Invariant: fail before sending anything when misconfigured.
		a.finish(domain.UnknownError)
		return
	}

	ch.SetListener(a)
	a.sendClientHello()
}

// OnConnected is a no-op: the channel is assumed already connected when
// handed to Start.
func (a *Authenticator) OnConnected() {}

func (a *Authenticator) OnDisconnected(err error) {
	if isAccessDenied(err) {
		a.finish(domain.AccessDenied)
		return
	}
	a.finish(domain.NetworkError)
}

func (a *Authenticator) OnMessageReceived(data []byte) {
	switch a.state {
	case StateReadServerHello:
		a.handleServerHello(data)
	case StateReadServerKeyExchange:
		a.handleServerKeyExchange(data)
	case StateReadSessionChallenge:
		a.handleSessionChallenge(data)
	default:
		a.log.Printf("handshake: unexpected message in state %s", a.state)
		a.finish(domain.ProtocolError)
	}
}

func (a *Authenticator) OnMessageWritten(pending int) {
	switch a.state {
	case StateSendClientHello:
		a.transition(StateReadServerHello)
	case StateSendIdentify:
		a.transition(StateReadServerKeyExchange)
	case StateSendClientKeyExchange:
		a.installAEAD()
		a.transition(StateReadSessionChallenge)
	case StateSendSessionResponse:
		if a.transition(StateFinished) {
			a.finish(domain.Success)
		}
	default:
		a.log.Printf("handshake: unexpected write completion in state %s", a.state)
		a.finish(domain.ProtocolError)
	}
}

// transition validates and applies a state change, failing the handshake
// with PROTOCOL_ERROR if the transition is illegal or revisits a state.
func (a *Authenticator) transition(to State) bool {
	if a.visited[to] || !isLegalTransition(a.state, to) {
		a.log.Printf("handshake: illegal transition %s -> %s", a.state, to)
		a.finish(domain.ProtocolError)
		return false
	}
	a.state = to
	a.visited[to] = true
	return true
}

func (a *Authenticator) sendClientHello() {
	mask := domain.SuiteChaCha20Poly1305
	if crypto.AESNI() {
		mask |= domain.SuiteAES256GCM
	}
	a.ctx.SupportedSuites = mask

	msg := ClientHelloMsg{
		Encryption: uint32(mask),
		Identify:   uint8(a.ctx.Identify),
	}

	if a.ctx.HasPeerPublicKey {
		priv, pub, err := crypto.GenerateX25519()
		if err != nil {
			a.finish(domain.UnknownError)
			return
		}
		shared, err := crypto.X25519Agree(priv, a.ctx.PeerPublicKey)
		if err != nil {
			a.finish(domain.UnknownError)
			return
		}
		a.ctx.EphemeralPriv, a.ctx.EphemeralPub = priv, pub
		a.ctx.SessionKey = crypto.Blake2s256(shared[:])
		a.ctx.HasSessionKey = true

		iv, err := crypto.RandBytes(12)
		if err != nil {
			a.finish(domain.UnknownError)
			return
		}
		copy(a.ctx.EncryptIV[:], iv)

		msg.PublicKey = pub.Slice()
		msg.IV = a.ctx.EncryptIV[:]
	}

	if err := a.channel.Send(msg.MarshalBinary()); err != nil {
		a.finish(a.networkOutcome(err))
	}
}

func (a *Authenticator) handleServerHello(data []byte) {
	msg, err := UnmarshalServerHello(data)
	if err != nil {
		a.finish(domain.ProtocolError)
		return
	}

	suite := domain.EncryptionSuite(msg.Encryption)
	if !suite.Single() {
		a.finish(domain.ProtocolError)
		return
	}
	a.ctx.Suite = suite

	if a.ctx.HasSessionKey == (len(msg.IV) == 0) {
		// session_key_.empty() == decrypt_iv_.empty() must hold.
		a.finish(domain.ProtocolError)
		return
	}
	if len(msg.IV) > 0 {
		copy(a.ctx.DecryptIV[:], msg.IV)
		a.installAEAD()
	}

	if a.ctx.Identify == domain.IdentifyAnonymous {
		a.transition(StateReadSessionChallenge)
		return
	}
	if a.transition(StateSendIdentify) {
		a.sendIdentify()
	}
}

func (a *Authenticator) sendIdentify() {
	msg := SrpIdentifyMsg{Username: a.ctx.Username}
	if err := a.channel.Send(msg.MarshalBinary()); err != nil {
		a.finish(a.networkOutcome(err))
	}
}

func (a *Authenticator) handleServerKeyExchange(data []byte) {
	msg, err := UnmarshalSrpServerKeyExchange(data)
	if err != nil {
		a.finish(domain.ProtocolError)
		return
	}
	if len(msg.Salt) < 64 || len(msg.B) < 128 {
		a.finish(domain.ProtocolError)
		return
	}
	// Open question resolution: the SRP path requires a 12-byte server IV
	// here, whether or not ServerHello already carried one.
	if len(msg.IV) != 12 {
		a.finish(domain.ProtocolError)
		return
	}

	group, ok := srp.Lookup(len(msg.N))
	if !ok {
		a.finish(domain.ProtocolError)
		return
	}
	n := crypto.IntFromBytes(msg.N)
	g := crypto.IntFromBytes(msg.G)
	if n.Cmp(group.N) != 0 || g.Cmp(group.G) != 0 {
		a.finish(domain.ProtocolError)
		return
	}

	b := crypto.IntFromBytes(msg.B)
	if !srp.VerifyBModN(b, n) {
		a.finish(domain.ProtocolError)
		return
	}

	littleA, err := crypto.RandBytes(128)
	if err != nil {
		a.finish(domain.UnknownError)
		return
	}
	defer crypto.Zero(littleA)

	aInt := crypto.IntFromBytes(littleA)
	bigA := srp.CalcA(aInt, n, g)
	x := srp.CalcX(msg.Salt, a.ctx.Username, string(a.ctx.Password))
	u := srp.CalcU(bigA, b, n)
	clientKey := srp.CalcClientKey(n, b, g, x, aInt, u)

	if a.ctx.HasSessionKey {
		a.ctx.SessionKey = crypto.Blake2s256(a.ctx.SessionKey[:], clientKey)
	} else {
		a.ctx.SessionKey = crypto.Blake2s256(clientKey)
	}
	a.ctx.HasSessionKey = true
	copy(a.ctx.DecryptIV[:], msg.IV)

	newIV, err := crypto.RandBytes(12)
	if err != nil {
		a.finish(domain.UnknownError)
		return
	}
	copy(a.ctx.EncryptIV[:], newIV)

	aBytes := crypto.IntToBytes(bigA, len(n.Bytes()))
	if a.transition(StateSendClientKeyExchange) {
		a.sendClientKeyExchange(aBytes)
	}
}

func (a *Authenticator) sendClientKeyExchange(aBytes []byte) {
	msg := SrpClientKeyExchangeMsg{A: aBytes, IV: a.ctx.EncryptIV[:]}
	if err := a.channel.Send(msg.MarshalBinary()); err != nil {
		a.finish(a.networkOutcome(err))
	}
}

func (a *Authenticator) handleSessionChallenge(data []byte) {
	msg, err := UnmarshalSessionChallenge(data)
	if err != nil {
		a.finish(domain.ProtocolError)
		return
	}
	offered := domain.SessionType(msg.SessionTypes)
	if !offered.Allows(a.ctx.RequestedSession) {
		a.finish(domain.SessionDenied)
		return
	}
	a.ctx.AllowedSessions = offered
	a.ctx.PeerVersion = domain.PeerVersion{Major: msg.Major, Minor: msg.Minor, Patch: msg.Patch}

	if a.transition(StateSendSessionResponse) {
		a.sendSessionResponse()
	}
}

func (a *Authenticator) sendSessionResponse() {
	msg := SessionResponseMsg{SessionType: uint32(a.ctx.RequestedSession)}
	if err := a.channel.Send(msg.MarshalBinary()); err != nil {
		a.finish(a.networkOutcome(err))
	}
}

// installAEAD (re)binds the channel's encryptor and decryptor to the
// current session key and IVs. Called once after the X25519 preamble (if
// any) and again after the SRP key exchange, which rotates the pair.
func (a *Authenticator) installAEAD() {
	a.channel.SetEncryptor(&aeadEncryptor{suite: a.ctx.Suite, key: a.ctx.SessionKey, iv: a.ctx.EncryptIV})
	a.channel.SetDecryptor(&aeadDecryptor{suite: a.ctx.Suite, key: a.ctx.SessionKey, iv: a.ctx.DecryptIV})
}

func (a *Authenticator) networkOutcome(err error) domain.ErrorCode {
	if isAccessDenied(err) {
		return domain.AccessDenied
	}
	return domain.NetworkError
}

// finish pauses and detaches from the channel, zeroes the secrets held in
// ctx, and then invokes the callback. Only the first call has any effect.
func (a *Authenticator) finish(code domain.ErrorCode) {
	a.mu.Lock()
	if a.callbackFired {
		a.mu.Unlock()
		return
	}
	a.callbackFired = true
	cb := a.callback
	ch := a.channel
	a.mu.Unlock()

	if ch != nil {
		ch.Pause()
		ch.SetListener(nil)
	}

	crypto.Zero(a.ctx.Password)
	crypto.Zero(a.ctx.SessionKey[:])

	if cb != nil {
		cb(code)
	}
}

type aeadEncryptor struct {
	suite domain.EncryptionSuite
	key   [32]byte
	iv    [12]byte
}

func (e *aeadEncryptor) Seal(plaintext []byte) ([]byte, error) {
	return crypto.Seal(e.suite, e.key, e.iv, plaintext)
}

type aeadDecryptor struct {
	suite domain.EncryptionSuite
	key   [32]byte
	iv    [12]byte
}

func (d *aeadDecryptor) Open(ciphertext []byte) ([]byte, error) {
	return crypto.Open(d.suite, d.key, d.iv, ciphertext)
}
