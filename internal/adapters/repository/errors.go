package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrPersist = errors.New("persist seen store failed")
)
