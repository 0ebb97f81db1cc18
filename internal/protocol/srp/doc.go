// Package srp implements the client-side arithmetic of SRP-6a: computing the
// client's public ephemeral A, the scrambling parameter u, the password
// hash x, and the client's session secret, plus the whitelisted (N, g)
// groups the handshake accepts.
//
// This package does not implement the server side, nor does it know
// anything about the wire format; internal/protocol/handshake drives it.
package srp
