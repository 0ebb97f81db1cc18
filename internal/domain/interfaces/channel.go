package interfaces

// ChannelListener receives lifecycle and data events from a MessageChannel.
// Implementations must not block; long work should be handed off.
type ChannelListener interface {
	OnConnected()
	OnDisconnected(err error)
	OnMessageReceived(data []byte)
	OnMessageWritten(pending int)
}

// Encryptor seals a single outgoing message.
type Encryptor interface {
	Seal(plaintext []byte) ([]byte, error)
}

// Decryptor opens a single incoming message.
type Decryptor interface {
	Open(ciphertext []byte) ([]byte, error)
}

// MessageChannel is a length-delimited, bidirectional byte channel with a
// pluggable encryptor/decryptor slot. The authenticator assumes the channel
// is delivered already connected.
//
// Installing an encryptor or decryptor is atomic with respect to subsequent
// Send calls and received messages: once SetEncryptor/SetDecryptor returns,
// every later Send/delivery uses the new one, and nothing in flight observes
// a partial swap.
type MessageChannel interface {
	Send(data []byte) error
	Pause()
	Resume()
	SetListener(l ChannelListener)
	SetEncryptor(e Encryptor)
	SetDecryptor(d Decryptor)
}
