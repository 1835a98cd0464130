package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"resty.dev/v3"
)

// Error codes carried by *Error.
const (
	CodeTimeout     = "ECONNABORTED"
	CodeCanceled    = "ERR_CANCELED"
	CodeNetwork     = "ERR_NETWORK"
	CodeBadRequest  = "ERR_BAD_REQUEST"
	CodeBadResponse = "ERR_BAD_RESPONSE"
)

// Error is returned for every failed request.
type Error struct {
	Code    string
	Message string
	// StatusCode is 0 when no response was received.
	StatusCode int
	// ServerMessage is the "error" field of the response body, if any.
	ServerMessage string
	Response      *resty.Response
	Err           error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// errorBody is the JSON shape of backend error responses.
type errorBody struct {
	Error string `json:"error"`
}

// newTransportError classifies a failure with no HTTP response. A deadline
// set by the caller's ctx keeps the timeout code but reports ctx's own error
// instead of the client timeout.
func newTransportError(ctx context.Context, err error, timeout time.Duration) *Error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Error{Code: CodeTimeout, Message: ctx.Err().Error(), Err: err}
	case isTimeout(err):
		return &Error{
			Code:    CodeTimeout,
			Message: fmt.Sprintf("timeout of %dms exceeded", timeout.Milliseconds()),
			Err:     err,
		}
	case errors.Is(err, context.Canceled):
		return &Error{Code: CodeCanceled, Message: "canceled", Err: err}
	default:
		return &Error{Code: CodeNetwork, Message: err.Error(), Err: err}
	}
}

func newResponseError(resp *resty.Response) *Error {
	status := resp.StatusCode()
	e := &Error{
		Code:       CodeBadRequest,
		Message:    fmt.Sprintf("Request failed with status code %d", status),
		StatusCode: status,
		Response:   resp,
	}
	if status >= 500 {
		e.Code = CodeBadResponse
	}

	// resty decodes the body only for JSON responses.
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		e.ServerMessage = body.Error
	}
	return e
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeTimeout
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
