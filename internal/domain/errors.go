package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrCacheMiss         = errors.New("not in cache")
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrNoImage           = errors.New("no image provided")
)
