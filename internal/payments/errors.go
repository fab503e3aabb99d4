package payments

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/harborline/vaultpay-go/internal/gateway"
)

// ErrorType classifies a failed operation.
type ErrorType string

const (
	ErrNotFound   ErrorType = "not_found"
	ErrValidation ErrorType = "validation"
	ErrDuplicate  ErrorType = "duplicate"
	ErrNetwork    ErrorType = "network"
	ErrVendor     ErrorType = "vendor"
)

// Error is the single failure shape every operation returns. Err keeps
// the underlying cause on the chain, so errors.Is still sees transport
// errors such as context.DeadlineExceeded.
type Error struct {
	Type    ErrorType
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("payments: %s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("payments: %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("payments: %s failed", e.Op)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a not_found failure.
func IsNotFound(err error) bool { return hasType(err, ErrNotFound) }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return hasType(err, ErrValidation) }

// IsDuplicate reports whether err is an id-collision failure.
func IsDuplicate(err error) bool { return hasType(err, ErrDuplicate) }

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool { return hasType(err, ErrNetwork) }

func hasType(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}

// classify wraps a gateway failure in the facade's taxonomy. Vendor
// responses map by status code and envelope type; everything else is a
// network failure.
func classify(op string, err error) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		typ := ErrVendor
		switch {
		case apiErr.StatusCode == http.StatusNotFound || apiErr.Type == gateway.ErrorTypeNotFound:
			typ = ErrNotFound
		case apiErr.StatusCode == http.StatusConflict || apiErr.Type == gateway.ErrorTypeDuplicate:
			typ = ErrDuplicate
		case apiErr.StatusCode == http.StatusUnprocessableEntity || apiErr.Type == gateway.ErrorTypeValidation:
			typ = ErrValidation
		}
		return &Error{Type: typ, Op: op, Message: apiErr.Message, Err: err}
	}
	return &Error{Type: ErrNetwork, Op: op, Err: err}
}

// invalidInput wraps a local validation failure before any request is
// sent to the vendor.
func invalidInput(op string, err error) error {
	return &Error{Type: ErrValidation, Op: op, Message: err.Error(), Err: err}
}
