// Package commands defines the peerlink CLI.
//
// Commands
//
//   - connect   Dial --addr, run the handshake, and on success splice the
//               connection into --relay-to if it is set. Without --relay-to
//               it logs the result and returns; the channel is not kept open.
//
// # Implementation
//
// The root command parses and validates every flag before any subcommand
// runs, building the ClientWire from which connect takes its
// app.ClientConfig and its Authenticator.
package commands
