package session

import "errors"

// Common errors for session store construction and use.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrClosed           = errors.New("session store closed")
)
