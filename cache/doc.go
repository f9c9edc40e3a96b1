// Package cache provides the expiring key-value store behind conversion and
// search results.
//
// It provides a Cache interface with in-memory and Redis implementations,
// SHA-256-based key derivation over (operation, mode, input), TTL policies,
// and a Memoizer that consults the store before computing a value.
package cache
