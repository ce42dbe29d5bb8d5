// Package store persists ledger chains.
//
// MemoryStore and LevelDBStore implement ChainStore; CachedStore wraps
// either with an LRU read cache. Chains can also be exported to and read
// from JSON files, and committed blocks can be journaled line by line.
package store
