package cart

import (
	"errors"
	"fmt"
)

// Common errors for cart operations.
var (
	ErrInvalidItemID   = errors.New("invalid item id")
	ErrUnknownModel    = errors.New("unknown model")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ArgumentError reports which input failed validation.
// It matches ErrInvalidArgument with errors.Is.
type ArgumentError struct {
	Field string
}

func invalidArgument(field string) error {
	return &ArgumentError{Field: field}
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("please pass a valid %s", e.Field)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func itemNotFound(itemID string) error {
	return fmt.Errorf("%w: the cart does not contain item %s", ErrInvalidItemID, itemID)
}
