package auth

import (
	"errors"
	"strings"
)

var (
	// ErrIllegalTransition is returned when an operation is not allowed in the current state.
	ErrIllegalTransition = errors.New("auth: illegal transition")
	// ErrMissingFields is returned when a submission lacks expected fields. See MissingFieldsError.
	ErrMissingFields = errors.New("auth: missing login fields")
	// ErrWrongCredentials is returned when the provider rejected the submitted credentials.
	ErrWrongCredentials = errors.New("auth: wrong credentials")
	// ErrProviderUnavailable is returned when the provider refuses logins; the attempt is abandoned.
	ErrProviderUnavailable = errors.New("auth: provider unavailable")
)

// MissingFieldsError lists the expected fields a submission did not fill.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return ErrMissingFields.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingFields
}
