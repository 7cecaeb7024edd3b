package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when an insert violates urls.name uniqueness.
	ErrDuplicateName = errors.New("duplicate url name")
	// ErrForeignKeyViolation is returned when a check references a missing url.
	ErrForeignKeyViolation = errors.New("referenced url does not exist")
)
