package snippet

import "errors"

var (
	// ErrNotFound is returned when a snippet does not exist or its name
	// is not a plain file name.
	ErrNotFound = errors.New("snippet: not found")

	// ErrEmptyTitle is returned by Save when the title yields no usable
	// file name.
	ErrEmptyTitle = errors.New("snippet: empty title")

	// ErrInvalidCategory is returned by Catalog.Validate.
	ErrInvalidCategory = errors.New("snippet: invalid category")
)
