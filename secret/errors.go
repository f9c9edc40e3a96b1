package secret

import "errors"

var (
	// ErrNotFound is returned by a provider when the referenced secret does not exist.
	ErrNotFound = errors.New("secret: not found")

	// ErrProviderNotRegistered is returned for references to unknown providers.
	ErrProviderNotRegistered = errors.New("secret: provider not registered")

	// ErrEmptyValue is returned in strict mode when a secret resolves to "".
	ErrEmptyValue = errors.New("secret: empty value")

	// ErrMissingEnv is returned when a ${VAR} reference names an unset
	// variable.
	ErrMissingEnv = errors.New("secret: missing environment variables")
)
