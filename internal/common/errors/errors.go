// internal/common/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeProfileValidationFailed ErrorCode = "PROFILE_VALIDATION_FAILED"
	ErrCodeRecommendationRejected  ErrorCode = "RECOMMENDATION_REJECTED"
	ErrCodeRequestInFlight         ErrorCode = "REQUEST_IN_FLIGHT"

	ErrCodeGatewayTimeout     ErrorCode = "GATEWAY_TIMEOUT"
	ErrCodeGatewayUnavailable ErrorCode = "GATEWAY_UNAVAILABLE"
	ErrCodeGatewayHTTPError   ErrorCode = "GATEWAY_HTTP_ERROR"
	ErrCodeGatewayBadResponse ErrorCode = "GATEWAY_BAD_RESPONSE"

	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeSessionConflict    ErrorCode = "SESSION_CONFLICT"

	ErrCodeInvalidView      ErrorCode = "INVALID_VIEW"
	ErrCodeInvalidFilter    ErrorCode = "INVALID_FILTER"
	ErrCodeInvalidLanguage  ErrorCode = "INVALID_LANGUAGE"
	ErrCodeEmptySearchQuery ErrorCode = "EMPTY_SEARCH_QUERY"
	ErrCodeEmptyChatMessage ErrorCode = "EMPTY_CHAT_MESSAGE"

	ErrCodeAuditWriteFailed   ErrorCode = "AUDIT_WRITE_FAILED"
	ErrCodeCatalogIndexFailed ErrorCode = "CATALOG_INDEX_FAILED"

	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the error shape every worker reports.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata adds a key to Metadata and returns e.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// BPMNError is what gets thrown back to the process engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewProfileValidationFailedError(details string) *StandardError {
	return newError(ErrCodeProfileValidationFailed, "Profile validation failed", details, false, nil)
}

func NewRecommendationRejectedError(details string) *StandardError {
	return newError(ErrCodeRecommendationRejected, "Recommendation service returned no result", details, false, nil)
}

func NewRequestInFlightError(sessionID string) *StandardError {
	return newError(ErrCodeRequestInFlight, "A recommendation request is already in progress",
		fmt.Sprintf("sessionId: %s", sessionID), false, nil)
}

func NewGatewayTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeGatewayTimeout, "Backend request timed out",
		fmt.Sprintf("operation: %s, error: %v", operation, err), false, err)
}

func NewGatewayUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeGatewayUnavailable, "Backend unreachable",
		fmt.Sprintf("operation: %s, error: %v", operation, err), false, err)
}

func NewGatewayHTTPError(operation string, status int) *StandardError {
	return newError(ErrCodeGatewayHTTPError, "Backend returned an error status",
		fmt.Sprintf("operation: %s, status: %d", operation, status), false, nil).
		WithMetadata("status", status)
}

func NewGatewayBadResponseError(operation string, err error) *StandardError {
	return newError(ErrCodeGatewayBadResponse, "Backend response could not be decoded",
		fmt.Sprintf("operation: %s, error: %v", operation, err), false, err)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store error", err.Error(), true, err)
}

func NewSessionConflictError(sessionID string) *StandardError {
	return newError(ErrCodeSessionConflict, "Session was modified concurrently",
		fmt.Sprintf("sessionId: %s", sessionID), true, nil)
}

func NewInvalidViewError(view string) *StandardError {
	return newError(ErrCodeInvalidView, "View cannot be navigated to", fmt.Sprintf("view: %s", view), false, nil)
}

func NewInvalidFilterError(err error) *StandardError {
	return newError(ErrCodeInvalidFilter, "Invalid result filter or sort", err.Error(), false, err)
}

func NewInvalidLanguageError(code string) *StandardError {
	return newError(ErrCodeInvalidLanguage, "Unsupported language", fmt.Sprintf("language: %s", code), false, nil)
}

func NewEmptySearchQueryError() *StandardError {
	return newError(ErrCodeEmptySearchQuery, "Search query is empty", "", false, nil)
}

func NewEmptyChatMessageError() *StandardError {
	return newError(ErrCodeEmptyChatMessage, "Chat message is empty", "", false, nil)
}

func NewAuditWriteFailedError(err error) *StandardError {
	return newError(ErrCodeAuditWriteFailed, "Audit record could not be written", err.Error(), true, err)
}

func NewCatalogIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeCatalogIndexFailed, "Catalog indexing failed",
		fmt.Sprintf("index: %s, error: %v", index, err), true, err)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false, nil)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternalError, "Unexpected error", err.Error(), false, err)
}

// BPMNErrorMapping maps internal codes to the error codes caught by boundary
// events in the scheme-lookup process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeProfileValidationFailed: "PROFILE_INVALID",
	ErrCodeRecommendationRejected:  "RECOMMENDATION_FAILED",
	ErrCodeRequestInFlight:         "REQUEST_IN_FLIGHT",
	ErrCodeGatewayTimeout:          "BACKEND_UNAVAILABLE",
	ErrCodeGatewayUnavailable:      "BACKEND_UNAVAILABLE",
	ErrCodeGatewayHTTPError:        "BACKEND_ERROR",
	ErrCodeGatewayBadResponse:      "BACKEND_ERROR",
	ErrCodeSessionStoreFailed:      "SESSION_STORE_FAILED",
	ErrCodeSessionConflict:         "SESSION_CONFLICT",
	ErrCodeInvalidView:             "INVALID_VIEW",
	ErrCodeInvalidFilter:           "INVALID_FILTER",
	ErrCodeInvalidLanguage:         "INVALID_LANGUAGE",
	ErrCodeEmptySearchQuery:        "EMPTY_SEARCH_QUERY",
	ErrCodeEmptyChatMessage:        "EMPTY_CHAT_MESSAGE",
	ErrCodeInvalidInput:            "INVALID_INPUT",
}

// GetRetryCount returns how many job retries a code deserves. Backend
// failures are user-visible outcomes and are never retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSessionStoreFailed,
		ErrCodeAuditWriteFailed,
		ErrCodeCatalogIndexFailed:
		return 3
	case ErrCodeSessionConflict:
		return 2
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// AsStandard unwraps err to a *StandardError if one is in the chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "GATEWAY"), codeStr == string(ErrCodeRecommendationRejected):
		return "BACKEND"
	case strings.HasPrefix(codeStr, "SESSION"), codeStr == string(ErrCodeRequestInFlight):
		return "SESSION"
	case strings.HasPrefix(codeStr, "AUDIT"), strings.HasPrefix(codeStr, "CATALOG"):
		return "STORAGE"
	case strings.Contains(codeStr, "INVALID"), strings.Contains(codeStr, "VALIDATION"), strings.HasPrefix(codeStr, "EMPTY"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
