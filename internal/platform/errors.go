package platform

import (
	"encoding/json"
	"fmt"
)

// NetworkError means the request produced no HTTP response at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e == nil {
		return "network error"
	}
	return fmt.Sprintf("platform request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPError is a non-2xx response, kept after the single auth retry.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	return fmt.Sprintf("platform responded with status %d", e.Status)
}

// Message surfaces the backend-provided message when one is present.
func (e *HTTPError) Message() string {
	if e == nil || len(e.Body) == 0 {
		return "request failed"
	}
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return "request failed"
}

// AuthError means the one-shot token refresh failed; stored credentials
// have been cleared and the caller must re-authenticate.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	if e == nil || e.Err == nil {
		return "authentication expired"
	}
	return fmt.Sprintf("authentication expired: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
