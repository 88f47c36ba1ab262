package remote

import (
	"errors"
	"fmt"
)

// NotFoundError means the index definitively answered 404 for a resource.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.What)
}

// InaccessibleError means the index could not give a definitive answer:
// a transport failure, a timeout, or a non-200/404 status.
type InaccessibleError struct {
	Status string
}

func (e *InaccessibleError) Error() string {
	return fmt.Sprintf("not accessible: %s", e.Status)
}

// asInaccessible normalizes exhausted-retry transport errors into the
// inaccessible outcome, preserving an already-typed error as is.
func asInaccessible(err error) error {
	var ia *InaccessibleError
	if errors.As(err, &ia) {
		return ia
	}
	return &InaccessibleError{Status: err.Error()}
}
