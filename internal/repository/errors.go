package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (a second ballot for a voter, or a second row for a fingerprint id).
// The constraint is the correctness mechanism; callers translate this into
// their duplicate/exists outcome.
var ErrDuplicate = errors.New("duplicate record")

// ErrForeignKey is returned when an insert references a row that does not exist.
var ErrForeignKey = errors.New("referenced record not found")
