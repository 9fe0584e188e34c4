package domain

import "github.com/pkg/errors"

var (
	// ErrInvalidTimezone matches any *InvalidTimezoneError.
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrPermissionDenied means the actor may not perform the action.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound is the empty state: timezone unset or no persistent message.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable wraps failures of the chat platform. Always transient.
	ErrUnavailable = errors.New("platform unavailable")
	// ErrDataDrift marks persisted data that no longer validates.
	ErrDataDrift = errors.New("persisted data no longer valid")
)

// InvalidTimezoneError names the rejected input.
type InvalidTimezoneError struct {
	Input string
}

func (e *InvalidTimezoneError) Error() string {
	return "invalid timezone: " + e.Input
}

// Is makes errors.Is(err, ErrInvalidTimezone) hold.
func (e *InvalidTimezoneError) Is(target error) bool {
	return target == ErrInvalidTimezone
}
