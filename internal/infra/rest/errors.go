package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"prapp-client/internal/domain"
)

// APIError is an HTTP-level failure: a response was received but carried a
// failing status. Network-level failures are returned as wrapped transport
// errors instead, so the two are distinguishable in message content.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Unwrap maps well-known statuses onto domain sentinels so callers can use
// errors.Is without caring about transport details.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// newAPIError extracts the human-readable message from a failing response
// body. JSON bodies with a "detail" or "message" field keep the backend's
// wording; anything else falls back to the raw text.
func newAPIError(status int, body []byte) *APIError {
	detail := strings.TrimSpace(string(body))
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			detail = payload.Detail
		} else if payload.Message != "" {
			detail = payload.Message
		}
	}
	return &APIError{Status: status, Detail: detail}
}
