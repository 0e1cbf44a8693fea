package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/usestring/netsearch/pkg/client"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodePowHTTPError = "POWHTTP_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeCanceled     = "CANCELED"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapPowHTTPError converts an error from syncing with powhttp to a coded error.
func WrapPowHTTPError(err error) error {
	if err == nil {
		return nil
	}

	coded := &CodedError{Code: ErrCodePowHTTPError, Message: err.Error(), Cause: err}

	var apiErr *client.APIError
	var netErr net.Error
	switch {
	case errors.As(err, &apiErr):
		coded.Message = apiErr.Message
		if apiErr.StatusCode == 404 {
			coded.Code = ErrCodeNotFound
		}
	case errors.Is(err, context.Canceled):
		coded.Code = ErrCodeCanceled
		coded.Message = "request canceled"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		coded.Code = ErrCodeTimeout
		coded.Message = "request timed out"
	}

	slog.Warn("powhttp API error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// ErrCanceled reports a search that was canceled before it finished.
func ErrCanceled(cause error) error {
	return &CodedError{
		Code:    ErrCodeCanceled,
		Message: "search canceled",
		Cause:   cause,
	}
}
