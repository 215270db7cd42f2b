package redis

import "errors"

var (
	ErrEmptyURL          = errors.New("redis: connection URL is empty")
	ErrInvalidURL        = errors.New("redis: invalid connection URL")
	ErrNotReady          = errors.New("redis: not ready after retries")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
	// ErrCorruptSession is returned when a stored session cannot be decoded.
	ErrCorruptSession = errors.New("redis: corrupt session payload")
)
