package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Client-side error taxonomy used by the catalog gateway and reconciler.
// ErrUnauthorized and ErrNotFound are shared with the server side.
var (
	ErrNetwork    = errors.New("network error")
	ErrValidation = errors.New("validation failed")
	ErrRemote     = errors.New("remote error")
)

// ClientErr is returned by every catalog Gateway call. Kind is one of
// ErrNetwork, ErrUnauthorized, ErrValidation, ErrNotFound or ErrRemote.
type ClientErr struct {
	Kind       error
	StatusCode int    // 0 when the request never got a response
	Message    string // backend-reported or client-side message
	Field      string
	Cause      error
}

func (e *ClientErr) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return e.Kind.Error()
}

func (e *ClientErr) Unwrap() []error {
	unwrapped := []error{e.Kind}
	if e.Cause != nil {
		unwrapped = append(unwrapped, e.Cause)
	}
	return unwrapped
}

func NewNetworkError(operation string, cause error) *ClientErr {
	return &ClientErr{Kind: ErrNetwork, Message: operation, Cause: cause}
}

func NewAuthError(message string) *ClientErr {
	return &ClientErr{Kind: ErrUnauthorized, StatusCode: http.StatusUnauthorized, Message: message}
}

func NewValidationError(field, message string) *ClientErr {
	return &ClientErr{Kind: ErrValidation, Field: field, Message: message}
}

func NewClientNotFoundError(message string) *ClientErr {
	return &ClientErr{Kind: ErrNotFound, StatusCode: http.StatusNotFound, Message: message}
}

// FromStatus classifies a non-2xx backend response.
func FromStatus(statusCode int, message, field string) *ClientErr {
	if message == "" {
		message = strings.ToLower(http.StatusText(statusCode))
	}
	e := &ClientErr{StatusCode: statusCode, Message: message, Field: field}
	switch {
	case statusCode == http.StatusUnauthorized:
		e.Kind = ErrUnauthorized
	case statusCode == http.StatusNotFound:
		e.Kind = ErrNotFound
	case statusCode == http.StatusBadRequest, statusCode == http.StatusUnprocessableEntity:
		e.Kind = ErrValidation
	default:
		e.Kind = ErrRemote
	}
	return e
}

func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// StatusMessage renders err as the one-line status shown to the admin.
func StatusMessage(err error) string {
	if err == nil {
		return ""
	}
	var clientErr *ClientErr
	if errors.As(err, &clientErr) {
		switch {
		case errors.Is(clientErr.Kind, ErrNetwork):
			return "❌ Could not reach the server, check your connection"
		case errors.Is(clientErr.Kind, ErrUnauthorized):
			return "❌ Session expired, please log in again"
		case clientErr.Message != "":
			return "❌ " + upperFirst(clientErr.Message)
		}
	}
	return "❌ " + upperFirst(err.Error())
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
