// Package block implements the hash-linked ledger core: account state
// transitions, canonical content hashing, block construction and full chain
// replay from genesis.
//
// Everything here is pure and synchronous. Callers that share a chain
// between goroutines serialize appends themselves and validate snapshots.
package block
