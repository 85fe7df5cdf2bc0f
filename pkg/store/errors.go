package store

import "errors"

// Sentinel errors for store operations.
var (
	ErrNotReserved  = errors.New("key does not begin with __ and cannot be set as reserved")
	ErrKeyNotFound  = errors.New("key not found in store")
)
