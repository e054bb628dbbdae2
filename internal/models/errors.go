package models

import "errors"

// Uniqueness violations surfaced by the user store. Signup races on the
// same username or email end here rather than in the pre-insert lookup.
var (
	ErrDuplicateUserName = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already in use")
)
