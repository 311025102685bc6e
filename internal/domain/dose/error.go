package dose

import "errors"

var (
	ErrUnknownStatus = errors.New("unknown dose status")
	ErrInvalidPage   = errors.New("page must be positive")
)
