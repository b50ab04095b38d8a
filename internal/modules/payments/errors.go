package payments

import "errors"

var (
	ErrEmptyCart   = errors.New("item list is empty")
	ErrInvalidItem = errors.New("item has invalid price or quantity")
)
