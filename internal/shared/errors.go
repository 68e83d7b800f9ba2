package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrSessionInvalid = fmt.Errorf("session invalid")
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// API errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrUnauthorized     = fmt.Errorf("unauthorized")
	ErrMalformedPayload = fmt.Errorf("malformed payload")

	// Dashboard load errors
	ErrRequiredDataUnavailable = fmt.Errorf("required data unavailable")
	ErrOptionalDataUnavailable = fmt.Errorf("optional data unavailable")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// UnavailableError records which optional resource failed to load.
//
// It matches [ErrOptionalDataUnavailable] and the underlying cause with [errors.Is].
type UnavailableError struct {
	Kind string
	Err  error
}

// OptionalDataUnavailable wraps err as a failure of the named optional resource.
func OptionalDataUnavailable(kind string, err error) error {
	return &UnavailableError{Kind: kind, Err: err}
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", ErrOptionalDataUnavailable, e.Kind)
	}
	return fmt.Sprintf("%v: %s: %v", ErrOptionalDataUnavailable, e.Kind, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrOptionalDataUnavailable}
	}
	return []error{ErrOptionalDataUnavailable, e.Err}
}
