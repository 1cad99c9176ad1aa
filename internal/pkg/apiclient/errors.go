// internal/pkg/apiclient/errors.go
package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	networkMessage   = "Could not reach the store. Please try again."
	authMessage      = "Please log in to continue."
	rejectionMessage = "The store could not process the request. Please try again."
)

// NetworkError means the request never produced an HTTP response
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is a 401 from the store, or a credential known to be unusable
// before the call is made. Callers treat it as "not logged in".
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "not authenticated"
	}
	return "not authenticated: " + e.Message
}

// ValidationError is a local form check failure; no request was sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ServerRejection is any non-2xx, non-401 response. Message holds the
// body's "error" or "detail" string verbatim when one was present.
type ServerRejection struct {
	Status  int
	Message string
	Body    []byte
}

func (e *ServerRejection) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store rejected request (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("store rejected request (%d)", e.Status)
}

// IsNotFound reports whether the store answered 404
func (e *ServerRejection) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsAuth reports whether err is, or wraps, an AuthError
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNetwork reports whether err is, or wraps, a NetworkError
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsValidation reports whether err is, or wraps, a ValidationError
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// AsRejection extracts a ServerRejection from err
func AsRejection(err error) (*ServerRejection, bool) {
	var rejection *ServerRejection
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 rejection
func IsNotFound(err error) bool {
	rejection, ok := AsRejection(err)
	return ok && rejection.IsNotFound()
}

// UserMessage returns the text a shopper should see for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	if IsAuth(err) {
		return authMessage
	}
	if IsNetwork(err) {
		return networkMessage
	}
	if rejection, ok := AsRejection(err); ok {
		if rejection.Message != "" {
			return rejection.Message
		}
		return rejectionMessage
	}
	return rejectionMessage
}

// HTTPStatus maps err onto the status the storefront answers with
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsAuth(err):
		return http.StatusUnauthorized
	case IsNetwork(err):
		return http.StatusBadGateway
	}
	if rejection, ok := AsRejection(err); ok {
		if rejection.Status >= 400 && rejection.Status < 600 {
			return rejection.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// rejectionFromResponse reads the store's error body. The backend uses
// {"error": "..."} for most views and {"detail": "..."} for class-based ones.
func rejectionFromResponse(status int, body []byte) *ServerRejection {
	rejection := &ServerRejection{Status: status, Body: body}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return rejection
	}
	for _, key := range []string{"error", "detail"} {
		if msg, ok := payload[key].(string); ok && msg != "" {
			rejection.Message = msg
			return rejection
		}
	}
	return rejection
}
