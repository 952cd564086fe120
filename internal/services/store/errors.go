package store

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded is returned when a write would exceed the store quota
	ErrQuotaExceeded = errors.New("store quota exceeded")
)

// PersistError reports a mirror write that failed after the in-memory state
// already changed. The change is kept; callers treat it as a warning.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("state saved in memory but not persisted (%s): %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// AsWarning returns the PersistError in err's chain, if any
func AsWarning(err error) (*PersistError, bool) {
	var pe *PersistError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsWarning reports whether err is only a persistence warning
func IsWarning(err error) bool {
	_, ok := AsWarning(err)
	return ok
}
