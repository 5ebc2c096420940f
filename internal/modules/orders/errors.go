package orders

import "errors"

var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidStatus   = errors.New("status not settable by operator")
	ErrNotCancellable  = errors.New("order already in a terminal status")
	ErrEmptyNote       = errors.New("note text is required")
	ErrUnknownFactory  = errors.New("factory not found")
	ErrBadWallIndex    = errors.New("wall index out of range")
	ErrNothingToUpdate = errors.New("no editable fields in update")
)
