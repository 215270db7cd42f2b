package banking

import "errors"

var (
	// ErrContractViolation is returned when the remote response does not match the documented contract.
	ErrContractViolation = errors.New("banking: unexpected remote response")
	// ErrKeyNotFound is returned when the remote service does not recognize the API or session key.
	ErrKeyNotFound = errors.New("banking: key not found")
	// ErrUnauthorized is returned when the API credential is rejected.
	ErrUnauthorized = errors.New("banking: unauthorized credential")
)

// Remote messages with a defined meaning.
const (
	MessageKeyNotFound          = "Key not Found"
	MessageUnauthorizedProvider = "Unauthorized provider"
)
