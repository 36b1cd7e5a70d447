// Package llm provides the internal representations of chat completion API
// requests and responses exchanged with the remote assistant service.
package llm

// ErrorResponse is the error envelope returned by the completion service.
// huddle's own HTTP API answers failures with the same shape.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the service-provided description of a failure.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    any    `json:"code,omitempty"`
}

// NewErrorResponse builds an ErrorResponse carrying msg.
func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Message: msg}}
}
