package checkout

import "errors"

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrIncompleteConfig    = errors.New("cart line configuration is incomplete")
	ErrMissingPrintFiles   = errors.New("cart line is missing print files")
	ErrOrderNumberConflict = errors.New("order number conflict persisted after retries")
)
