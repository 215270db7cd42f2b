package daterange

import "errors"

var (
	// ErrUnrecognized is returned when no usable date expression was found.
	ErrUnrecognized = errors.New("no recognizable date range")
	// ErrOrder is returned when the range starts after it ends.
	ErrOrder = errors.New("date range start is after its end")
	// ErrFuture is returned when the range ends after today.
	ErrFuture = errors.New("date range ends in the future")
)
