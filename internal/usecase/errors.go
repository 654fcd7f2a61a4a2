package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"chatbot-relay/internal/domain"
)

type ErrorCode string

const (
	ErrorInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrorConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrorUpstream      ErrorCode = "UPSTREAM_ERROR"
	ErrorUnreachable   ErrorCode = "UPSTREAM_UNREACHABLE"
	ErrorInternal      ErrorCode = "INTERNAL_ERROR"
)

// Error is the relay's error taxonomy. Status carries the upstream HTTP
// status for ErrorUpstream and is zero otherwise.
type Error struct {
	Code   ErrorCode
	Reason string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// HTTPReply maps a Chat error to the status code and user-facing reply text
// the relay's clients expect. Both HTTP surfaces (the gin server and the
// Lambda handler) use it so the wire behavior cannot drift between them.
func HTTPReply(err error) (int, string) {
	var ucErr *Error
	if !errors.As(err, &ucErr) {
		return http.StatusInternalServerError, domain.MsgInternal
	}
	switch ucErr.Code {
	case ErrorInvalidInput:
		return http.StatusBadRequest, domain.MsgEmptyMessage
	case ErrorConfiguration:
		return http.StatusInternalServerError, domain.MsgNotConfigured
	case ErrorUnreachable:
		return http.StatusInternalServerError, domain.MsgUnreachable
	case ErrorUpstream:
		switch ucErr.Status {
		case http.StatusNotFound:
			return http.StatusInternalServerError, domain.MsgEndpointNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusInternalServerError, domain.MsgAuthFailed
		default:
			return http.StatusInternalServerError, fmt.Sprintf(domain.MsgUpstreamErrorFmt, ucErr.Status)
		}
	default:
		return http.StatusInternalServerError, domain.MsgInternal
	}
}
