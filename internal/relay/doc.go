// Package relay splices two already-authenticated TCP connections: bytes
// read from one side are written to the other, in both directions
// concurrently, while tracking cumulative bytes transferred and elapsed
// duration.
//
// A Session is used once: construct with New, call Start with a Delegate,
// and Stop (directly, or implicitly on first error) tears it down
// idempotently.
package relay
