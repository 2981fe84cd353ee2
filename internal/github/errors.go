package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
)

type ErrorKind int

const (
	// KindHTTP means GitHub answered with a non-2xx status code.
	KindHTTP ErrorKind = iota + 1
	// KindTransport means no usable response came back (DNS, connection, decoding).
	KindTransport
)

// Error is the classified failure of a single API call.
type Error struct {
	Kind        ErrorKind
	StatusCode  int
	Description string
	err         error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("github: unexpected status %d", e.StatusCode)
	}
	return "github: " + e.Description
}

func (e *Error) Unwrap() error {
	return e.err
}

func httpError(status int, err error) *Error {
	return &Error{Kind: KindHTTP, StatusCode: status, Description: http.StatusText(status), err: err}
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Description: err.Error(), err: err}
}

// classify turns the result of go-github's Do into an *Error. A response
// outside the 2xx range wins over whatever error go-github produced for it.
// go-github reports 202 as *github.AcceptedError; the result is not ready, so it
// is an HTTP error carrying 202.
func classify(resp *github.Response, err error) error {
	if err == nil {
		return nil
	}
	var accepted *github.AcceptedError
	if errors.As(err, &accepted) {
		return httpError(http.StatusAccepted, err)
	}
	if resp != nil && resp.Response != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return httpError(resp.StatusCode, err)
	}
	return transportError(err)
}
