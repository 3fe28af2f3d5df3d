package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnknownUser        = errors.New("user does not exist")
	ErrInvalidTransaction = errors.New("invalid transaction")
)
