package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Configuration & external service errors
var (
	ErrConfigMissing      = errors.New("configuration missing")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrExternalService    = errors.New("external service error")
)

// Configuration & Environment Error Constructors
func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

// NewExternalServiceError reports a non-2xx response from a third-party API
// such as Resend or Twilio.
func NewExternalServiceError(service string, statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrExternalService,
		Details:    fmt.Sprintf("%s returned status %d: %s", service, statusCode, message),
		Field:      service,
	}
}

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s is unavailable", service),
		Cause:      cause,
	}
}

func IsConfigMissing(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}

func IsExternalServiceError(err error) bool {
	return errors.Is(err, ErrExternalService)
}
