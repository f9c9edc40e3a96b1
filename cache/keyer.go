package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Keyer derives cache keys from an operation, a mode and the raw input.
//
// Contract:
// - Determinism: identical (operation, mode, input) must produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(operation, mode, input string) string
}

// DefaultKeyer renders keys as <prefix><operation>:<mode>:<sha256(input)>.
// The mode segment is omitted when mode is empty.
type DefaultKeyer struct {
	prefix string
}

// NewDefaultKeyer creates a keyer. The prefix, if any, is prepended verbatim.
func NewDefaultKeyer(prefix string) *DefaultKeyer {
	return &DefaultKeyer{prefix: prefix}
}

// Key hashes the input so arbitrarily large or multi-line text yields a
// bounded, single-line key.
func (k *DefaultKeyer) Key(operation, mode, input string) string {
	sum := sha256.Sum256([]byte(input))

	var b strings.Builder
	b.Grow(len(k.prefix) + len(operation) + len(mode) + 2 + sha256.Size*2)
	b.WriteString(k.prefix)
	b.WriteString(operation)
	b.WriteByte(':')
	if mode != "" {
		b.WriteString(mode)
		b.WriteByte(':')
	}
	b.WriteString(hex.EncodeToString(sum[:]))
	return b.String()
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
