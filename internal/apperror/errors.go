// Package apperror holds the error kinds shared across layers. Callers wrap them with
// fmt.Errorf("%w: ...") and test with errors.Is.
package apperror

import "errors"

var (
	// ErrConfiguration is a missing or malformed setting. Fatal only for the data store.
	ErrConfiguration = errors.New("configuration error")

	// ErrStorage is a failed call to the relational store.
	ErrStorage = errors.New("storage error")

	// ErrNotFound is an unknown ticker or record.
	ErrNotFound = errors.New("not found")

	// ErrProvider is a failed call to a market-data or chat provider.
	ErrProvider = errors.New("provider error")

	ErrLoginRequired = errors.New("You need to login to use this feature.")
	ErrInvalidInput  = errors.New("invalid input")
	ErrRateLimited   = errors.New("too many requests, please slow down")
)
