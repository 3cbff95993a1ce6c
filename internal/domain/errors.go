package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// InvalidArgumentError represents a malformed caller input, such as a
// non-finite coordinate. Never retried.
type InvalidArgumentError struct {
	Reason string
}

func (e InvalidArgumentError) Error() string {
	if e.Reason == "" {
		return "invalid argument"
	}
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// Is enables errors.Is matching on InvalidArgumentError.
func (e InvalidArgumentError) Is(target error) bool {
	_, ok := target.(InvalidArgumentError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidArgumentError)
	return ok
}

// ErrInvalidArgument is the sentinel error for malformed inputs.
var ErrInvalidArgument = InvalidArgumentError{}
