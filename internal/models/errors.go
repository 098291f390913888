package models

import "errors"

// Sentinel errors
var (
	// ErrNoAPIKeys indicates the credential pool is empty
	ErrNoAPIKeys = errors.New("no api keys configured")

	// ErrInvalidRequest indicates invalid request data
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
)
