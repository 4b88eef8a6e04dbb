package domain

import "errors"

var (
	ErrInvalidInterval = errors.New("invalid interval")
)
