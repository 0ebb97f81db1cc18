// Package app wires configuration, logging, and the protocol packages into
// ready-to-use values for cmd/peerlink and cmd/relayd.
//
// It builds the concrete dependency graph from a ClientConfig or
// RelayConfig, exposing it via ClientWire or RelayWire so command
// implementations never construct an Authenticator or relay.Metrics by
// hand.
package app
