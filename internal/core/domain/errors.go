package domain

import "errors"

// ErrNotFound marks a lookup for a record that does not exist. Callers use
// errors.Is to distinguish it from infrastructure failures.
var ErrNotFound = errors.New("not found")

// ErrNoEndpoint marks a probe attempt against a catalog entry that has no
// machine-readable endpoint on file.
var ErrNoEndpoint = errors.New("no endpoint")
