package neptunesdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the service. Message carries the
// server's error string when the body was the standard {"error": ...}
// envelope, or the raw body otherwise.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the request was rejected for a missing
// credential.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether the credential was present but invalid or
// expired.
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
}
