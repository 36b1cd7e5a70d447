package completion

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned before any network I/O when no credential
	// was configured.
	ErrMissingAPIKey = errors.New("completion API key is not configured")

	// ErrMalformedResponse is returned when a successful response does not
	// carry the expected choices[0].message.content shape.
	ErrMalformedResponse = errors.New("malformed completion response")
)

// APIError is a non-2xx answer from the completion service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}
