package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMessage is returned when a create request cannot be decoded
	// or does not carry a non-empty message.
	ErrInvalidMessage = errors.New("invalid message body")
	// ErrMethodNotAllowed is the body of the response to an unsupported method.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// StoreError is a failure reported by the message store.
type StoreError struct {
	// Op is the store operation that failed.
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
