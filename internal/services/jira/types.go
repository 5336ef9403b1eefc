package jira

import (
	"fmt"
)

// RemoteError represents a non-2xx response from the Jira API. Auth
// failures are not distinguished from other error statuses - the status
// code carries whatever Jira reported.
type RemoteError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("Jira API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// DecodeError represents a malformed response body from the Jira API.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode Jira response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
