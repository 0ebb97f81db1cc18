// Package channel provides FramedChannel, a reference implementation of
// domain.MessageChannel over a net.Conn: a 4-byte big-endian length prefix
// per message, a background read loop, and a mutex-guarded encryptor and
// decryptor slot that the authenticator installs mid-stream.
//
// Callers of internal/protocol/handshake are not required to use
// FramedChannel; any type satisfying domain.MessageChannel works.
package channel
