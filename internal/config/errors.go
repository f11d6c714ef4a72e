package config

import "errors"

var (
	ErrMissingCredentials = errors.New("TIDAL_EMAIL and TIDAL_PASSWORD environment variables are required")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnsupportedFormat  = errors.New("unsupported config format")
)
