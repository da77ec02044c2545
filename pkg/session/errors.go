package session

import "errors"

// Errors returned when a session lacks the material an operation needs.
var (
	ErrNoParams     = errors.New("session has no domain parameters")
	ErrNoPrivateKey = errors.New("session has no private key")
	ErrNoPublicKey  = errors.New("session has no public key")
)
