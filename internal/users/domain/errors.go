package domain

import "errors"

var (
	ErrNotFound        = errors.New("user not found")
	ErrDuplicate       = errors.New("user already exists")
	ErrInvalidArgument = errors.New("invalid user data")
	ErrConflict        = errors.New("user is referenced by live records")
)
