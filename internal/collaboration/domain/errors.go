package domain

import "errors"

var (
	ErrNotFound          = errors.New("collaboration request not found")
	ErrInvalidArgument   = errors.New("invalid collaboration request")
	ErrInvalidTransition = errors.New("collaboration request is not pending")
)
