package repo

import "errors"

// ErrNotFound is returned when the referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when an insert or update collides with the
// unique index on users.username.
var ErrUsernameTaken = errors.New("username already taken")
