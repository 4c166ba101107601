package backoff

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// defaultRetryCodes are the transient-failure codes retried out of the box.
// The list mirrors the throttling and availability errors returned by large
// cloud APIs.
var defaultRetryCodes = []string{
	"ThrottlingException",
	"TooManyRequestsException",
	"ServiceUnavailableException",
	"RequestLimitExceeded",
	"RequestThrottled",
	"RequestThrottledException",
	"ProvisionedThroughputExceededException",
	"LimitExceededException",
	"EndpointConnectionError",
	"ConnectTimeoutError",
	"Unavailable",
	"InternalFailure",
	"InternalError",
}

// DefaultRetryCodes returns a copy of the built-in retryable code list.
func DefaultRetryCodes() []string {
	out := make([]string, len(defaultRetryCodes))
	copy(out, defaultRetryCodes)
	return out
}

// ErrorCoder is implemented by errors that carry a machine-readable code.
// AWS SDK v2 API errors satisfy it via smithy.APIError.
type ErrorCoder interface {
	ErrorCode() string
}

// Error is a coded error for callers whose failures do not already carry a
// code of their own.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	default:
		return e.Code
	}
}

// ErrorCode implements ErrorCoder.
func (e *Error) ErrorCode() string { return e.Code }

func (e *Error) Unwrap() error { return e.Err }

// WithCode attaches a classification code to err. Returns nil if err is nil.
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

// Code extracts the classification code from err. API errors from AWS SDK v2
// clients are checked first so a service error wins over any outer coded
// wrapper; any other error in the chain implementing ErrorCoder is used
// next. The second return is false when err carries no code at all.
func Code(err error) (string, bool) {
	var api smithy.APIError
	if errors.As(err, &api) {
		return api.ErrorCode(), true
	}
	var coder ErrorCoder
	if errors.As(err, &coder) {
		return coder.ErrorCode(), true
	}
	return "", false
}

// codeSet is a membership set of error codes.
type codeSet map[string]struct{}

func newCodeSet(codes []string) codeSet {
	s := make(codeSet, len(codes))
	s.add(codes)
	return s
}

func (s codeSet) add(codes []string) {
	for _, c := range codes {
		s[c] = struct{}{}
	}
}

func (s codeSet) has(code string) bool {
	_, ok := s[code]
	return ok
}
