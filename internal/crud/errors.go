package crud

import (
	"errors"
	"fmt"
)

// Sentinel errors for dispatcher configuration problems. They are returned
// as Go errors, never recorded in a Status.
var (
	// ErrConfiguration is the parent of every setup or registration error.
	ErrConfiguration = errors.New("crud configuration error")

	// ErrNotRegistered indicates a DTO or entity type without a registration.
	ErrNotRegistered = fmt.Errorf("%w: type not registered", ErrConfiguration)

	// ErrUnknownOperation indicates an OperationID missing from the DTO's
	// operation table.
	ErrUnknownOperation = fmt.Errorf("%w: unknown operation", ErrConfiguration)

	// ErrDuplicateRegistration indicates a type registered twice.
	ErrDuplicateRegistration = fmt.Errorf("%w: duplicate registration", ErrConfiguration)
)
