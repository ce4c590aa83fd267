package storage

import "errors"

var (
	ErrImageNotFound = errors.New("image not found")
	ErrImageExists   = errors.New("image exists")
)
