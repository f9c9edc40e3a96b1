package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxKeyLength bounds key size. Keys built by DefaultKeyer stay well
// below it whatever the input size.
const MaxKeyLength = 512

// ErrInvalidKey is returned by ValidateKey.
var ErrInvalidKey = errors.New("cache: invalid key")

// Cache stores rendered outputs and encoded search results under expiring
// keys. Implementations must be safe for concurrent use.
//
// Get never fails: a missing, expired or unreachable entry is a miss, so
// callers always fall back to computing the value.
type Cache interface {
	// Get returns the value for key, or (nil, false) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys that are blank, longer than MaxKeyLength or
// contain line breaks, which a line-oriented backend cannot carry.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return fmt.Errorf("%w: blank", ErrInvalidKey)
	case len(key) > MaxKeyLength:
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidKey, len(key), MaxKeyLength)
	case strings.ContainsAny(key, "\r\n"):
		return fmt.Errorf("%w: contains a line break", ErrInvalidKey)
	}
	return nil
}
