package alpaca

import (
	"fmt"
	"net/http"
)

// APIError represents an Alpaca API error with additional context
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("Alpaca API error %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("Alpaca API error %d: %s", e.StatusCode, e.Message)
}

// Common Alpaca error codes
const (
	ErrCodeInsufficientBuyingPower = 40310000
	ErrCodeInsufficientQty         = 40310010
	ErrCodeAssetNotShortable       = 40310030
)

// IsRetryableError determines if an error should be retried
func IsRetryableError(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}

	switch apiErr.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsAuthenticationError checks if the error is related to authentication
func IsAuthenticationError(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
