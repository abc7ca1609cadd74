package quote

import "errors"

var (
	ErrNotFound    = errors.New("quote not found")
	ErrConflict    = errors.New("quote number already exists")
	ErrUnavailable = errors.New("quote storage unavailable")
	ErrInvalid     = errors.New("invalid quote")
)

// ErrItemNotFound is returned by cart operations addressing an unknown position.
var ErrItemNotFound = errors.New("line item not found")
