package store

import "errors"

var (
	// ErrNotFound means the referenced post does not exist.
	ErrNotFound = errors.New("post not found")

	// ErrSlugConflict means another post already owns the slug derived from
	// the given title.
	ErrSlugConflict = errors.New("slug already in use")

	// ErrInvalidCredentials is the single failure returned for any login
	// problem. It never reveals whether the username existed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
