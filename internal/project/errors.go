package project

import "errors"

// ErrMissingVersion is returned when a bundle has no version field.
var ErrMissingVersion = errors.New("invalid bundle: missing version field")
