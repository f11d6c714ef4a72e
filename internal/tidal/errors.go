package tidal

import "errors"

var (
	ErrAuthFailed   = errors.New("failed to login to TIDAL with provided credentials")
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrAPIRequest   = errors.New("TIDAL API request failed")
)
