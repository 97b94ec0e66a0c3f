package cache

import "errors"

var (
	// ErrUnavailable is returned when the Redis server cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")
	// ErrCorruptEntry is returned when a stored report cannot be decoded.
	ErrCorruptEntry = errors.New("corrupt cache entry")
)
