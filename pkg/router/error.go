package router

import (
	"io"
)

type Error interface {
	error
	StatusCode() int
	Encode(w io.Writer) error
}

// HeaderError is an Error that carries its own response headers.
type HeaderError interface {
	Error
	Headers() map[string]string
}
