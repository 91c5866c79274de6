package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure covers a rejected fetch, a non-success HTTP status or an unreadable file.
	ErrNetworkFailure = errors.New("network failure")
	// ErrParseFailure signals malformed CSV.
	ErrParseFailure = errors.New("parse failure")
)

// LoadError is the terminal error of a dataset load. Kind is one of the
// sentinels above so callers can branch with errors.Is.
type LoadError struct {
	Kind error
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
