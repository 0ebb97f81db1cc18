// Package handshake implements the client-side peer authenticator: a
// strict state machine that negotiates an authenticated AEAD channel with a
// remote peer by combining an optional X25519 ECDH preamble with an SRP-6a
// password exchange.
//
// An Authenticator is driven entirely by domain.MessageChannel callbacks;
// callers configure it (SetIdentify, SetUsername, SetPassword,
// SetPeerPublicKey, SetSessionType), call Start with a connected channel and
// a completion callback, and after the callback fires with Success call
// TakeChannel to reclaim the now-encrypted channel.
package handshake
