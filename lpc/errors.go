package lpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrRequestFailed matches every *RequestError through errors.Is.
	ErrRequestFailed = errors.New("lpc: request failed")

	ErrUnknownReference = errors.New("lpc: unknown reference list")
)

// RequestError is the single failure shape of Client: a transport error, a
// timeout, a non-2xx status or an undecodable body. Err carries the cause
// when there is one; StatusCode is 0 when no response arrived.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("lpc %s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("lpc %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("lpc %s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// IsNotFound reports whether err is a registry 404.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

// IsTimeout reports whether err came from a deadline rather than a response.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
