package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error type discriminators used in the vendor envelope.
const (
	ErrorTypeNotFound       = "not_found"
	ErrorTypeValidation     = "validation"
	ErrorTypeDuplicate      = "duplicate"
	ErrorTypeAuthentication = "authentication"
	ErrorTypeInternal       = "internal"
)

// APIError is a non-2xx response from the vendor, decoded from its
// {"error": {"type", "message"}} envelope.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("gateway: vaultpay api status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway: vaultpay api status %d (%s): %s", e.StatusCode, e.Type, e.Message)
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeError reads a non-2xx response body. Bodies that are not the
// documented envelope still produce a usable error.
func decodeError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "unreadable error body"}
	}
	var envelope errorEnvelope
	if jsonErr := json.Unmarshal(data, &envelope); jsonErr == nil && envelope.Error.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Type:       envelope.Error.Type,
			Message:    envelope.Error.Message,
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
}
