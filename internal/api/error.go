package api

import (
	"io"

	"github.com/putto11262002/guestbook/core"
)

// ResponseError renders an internal failure as the service's 500 response,
// headers included.
type ResponseError struct {
	err error
	res core.Response
}

func NewResponseError(err error) ResponseError {
	return ResponseError{err: err, res: core.InternalError(err)}
}

func (e ResponseError) Error() string {
	return e.err.Error()
}

func (e ResponseError) Unwrap() error {
	return e.err
}

func (e ResponseError) StatusCode() int {
	return e.res.StatusCode
}

func (e ResponseError) Headers() map[string]string {
	return e.res.Headers
}

func (e ResponseError) Encode(w io.Writer) error {
	_, err := io.WriteString(w, e.res.Body)
	return err
}
