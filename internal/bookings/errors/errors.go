package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("booking not found")

	ErrRoomNotFound = errors.New("room not found")

	ErrInvalidInterval = errors.New("start time must be before end time")

	ErrInvalidRequester = errors.New("requester name cannot be empty")

	ErrConflict = errors.New("booking conflict for this room and time")
)

// ConflictError names the stored booking a candidate collided with.
type ConflictError struct {
	ConflictingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s (conflicting booking %s)", ErrConflict.Error(), e.ConflictingID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ConflictingID extracts the colliding booking id from err, if any.
func ConflictingID(err error) (string, bool) {
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return conflictErr.ConflictingID, true
	}
	return "", false
}
