package catalog

import (
	"errors"
	"fmt"
)

// DefaultFailureMessage is what the gallery shows when a fetch fails.
const DefaultFailureMessage = "Failed to load content. Please try again later."

var (
	ErrUnexpectedStatus = errors.New("unexpected catalog status")
	ErrInvalidPayload   = errors.New("invalid catalog payload")
	ErrUnknownTier      = errors.New("unknown pricing option")
)

// FetchError is the only failure a Source reports. Message is user-visible;
// Err keeps the cause for logs.
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err with the default user message.
func NewFetchError(err error) *FetchError {
	return &FetchError{Message: DefaultFailureMessage, Err: err}
}

// FailureMessage extracts the user-visible message from any fetch error.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return DefaultFailureMessage
}
