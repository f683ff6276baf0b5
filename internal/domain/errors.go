package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is a transport or connection failure
	ErrNetwork = errors.New("network error")
	// ErrAPI is a response from the remote with a non-success status
	ErrAPI = errors.New("api error")
	// ErrDecode is a response body that does not match the expected schema
	ErrDecode = errors.New("decode error")
	// ErrInvalidArgument is a caller-supplied value outside the accepted domain
	ErrInvalidArgument = errors.New("invalid argument")
)

// APIError describes a non-success response from the remote
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap makes errors.Is(err, ErrAPI) hold for every APIError
func (e *APIError) Unwrap() error {
	return ErrAPI
}

// InvalidArgument builds an ErrInvalidArgument with a formatted reason
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
