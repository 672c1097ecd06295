// Package book provides book use cases: the DTOs and operation table the
// generic dispatcher runs on, and a hand-coded service that performs the
// same updates directly against a persistence context.
package book

import "errors"

// Sentinel errors for book use case operations.
var (
	// ErrBookNotFound indicates that the requested book was not found.
	ErrBookNotFound = errors.New("book not found")

	// ErrInvalidBookID indicates that the provided book ID is invalid.
	// Book IDs must be positive integers.
	ErrInvalidBookID = errors.New("invalid book ID")
)
