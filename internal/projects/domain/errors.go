package domain

import "errors"

var (
	ErrNotFound        = errors.New("project not found")
	ErrOwnerNotFound   = errors.New("project owner not found")
	ErrInvalidArgument = errors.New("invalid project data")
	ErrConflict        = errors.New("project is referenced by live records")
)
