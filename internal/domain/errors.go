package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownMode    = errors.New("unknown scheduling mode")
	ErrInvalidRecipe  = errors.New("invalid recipe")
	ErrNotConfigured  = errors.New("not configured")
	ErrBadLLMResponse = errors.New("unusable structurer response")
)
