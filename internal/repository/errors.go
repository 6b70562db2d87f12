package repository

import "errors"

// ErrNotFound is returned when a referenced entity does not exist. Callers
// match it with errors.Is; the wrapping message names the entity kind.
var ErrNotFound = errors.New("not found")
