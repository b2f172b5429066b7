package transferatu

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int

	// ID and Message are taken from a JSON error body when there is one.
	ID      string
	Message string

	// Body is the raw response body.
	Body string

	retryAfter string
}

func newAPIError(method, url string, resp *http.Response, body []byte) *APIError {
	e := &APIError{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       string(body),
		retryAfter: resp.Header.Get("Retry-After"),
	}

	var payload struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		e.ID = payload.ID
		e.Message = payload.Message
	} else {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, msg)
}

func statusIs(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsGone reports whether err is a 410 response, returned for soft-deleted groups.
func IsGone(err error) bool { return statusIs(err, http.StatusGone) }

// IsConflict reports whether err is a 409 response.
func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }
