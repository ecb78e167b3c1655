package util

import "errors"

// ErrNotFound is returned when a requested unit or driver does not exist.
var ErrNotFound = errors.New("not found")
