package bsale

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/stockflow/go-bsale/retry"
)

// Kind classifies an *Error.
type Kind int

// Error kinds. Every error produced by the engine has exactly one.
const (
	KindBase Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindValidation
	KindRateLimit
	KindNetwork
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindRateLimit:
		return "rate_limit"
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// FieldError is one entry of a validation failure.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope returned by the API.
type ErrorResponse struct {
	Code    FlexString   `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Error is the single error type returned by the engine and every resource
// client. Inspect Kind, or use errors.As / KindOf.
type Error struct {
	Kind    Kind
	Message string

	// StatusCode is the HTTP status for errors built from a response.
	StatusCode int
	// Errors holds field-level details of a validation failure.
	Errors []FieldError
	// RetryAfter is the server's requested wait; zero when absent.
	RetryAfter time.Duration
	// Response is the decoded error envelope, when one could be parsed.
	Response *ErrorResponse
	// Err is the underlying cause (network and decode failures).
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError returns a base-kind error.
func NewError(message string, cause error) *Error {
	return &Error{Kind: KindBase, Message: message, Err: cause}
}

// NewAuthenticationError returns an authentication error. An empty message
// yields "Authentication failed".
func NewAuthenticationError(message string) *Error {
	if message == "" {
		message = "Authentication failed"
	}
	return &Error{Kind: KindAuthentication, Message: message}
}

// NewAuthorizationError returns an authorization error. An empty message
// yields "Insufficient permissions".
func NewAuthorizationError(message string) *Error {
	if message == "" {
		message = "Insufficient permissions"
	}
	return &Error{Kind: KindAuthorization, Message: message}
}

// NewNotFoundError returns a not-found error for resource.
func NewNotFoundError(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: "Resource not found: " + resource}
}

// NewValidationError returns a validation error carrying field details.
func NewValidationError(message string, fieldErrors []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Errors: fieldErrors}
}

// NewRateLimitError returns a rate limit error. A positive retryAfter is
// kept and mentioned in the message in whole seconds.
func NewRateLimitError(retryAfter time.Duration) *Error {
	message := "Rate limit exceeded"
	if retryAfter > 0 {
		message += ". Retry after " + strconv.FormatInt(int64(retryAfter/time.Second), 10) + "s"
	} else {
		retryAfter = 0
	}
	return &Error{Kind: KindRateLimit, Message: message, RetryAfter: retryAfter}
}

// NewNetworkError returns a network error wrapping cause.
func NewNetworkError(message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: cause}
}

// NewAPIError returns an error for any other non-success status.
func NewAPIError(message string, statusCode int, response *ErrorResponse) *Error {
	return &Error{Kind: KindAPI, Message: message, StatusCode: statusCode, Response: response}
}

// KindOf reports the kind of the first *Error in err's chain. The boolean is
// false when err carries no *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindBase, false
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	kind, ok := KindOf(err)
	return ok && kind == k
}

// IsRetryable reports whether err is a rate limit or network failure.
// It is the usual predicate for retry.WithBackoffIf.
func IsRetryable(err error) bool {
	kind, ok := KindOf(err)
	return ok && (kind == KindRateLimit || kind == KindNetwork)
}

// classifyResponse turns a non-2xx response into an *Error. The body is
// consumed; an unreadable or non-JSON body is tolerated.
func classifyResponse(resp *http.Response) *Error {
	var envelope *ErrorResponse

	if body, err := io.ReadAll(resp.Body); err == nil && len(body) > 0 {
		var parsed ErrorResponse
		if json.Unmarshal(body, &parsed) == nil {
			envelope = &parsed
		}
	}

	message := ""
	if envelope != nil {
		message = envelope.Message
	}
	if message == "" {
		message = statusPhrase(resp)
	}
	if message == "" {
		message = "API request failed"
	}

	var classified *Error

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		classified = NewAuthenticationError(message)
	case http.StatusForbidden:
		classified = NewAuthorizationError(message)
	case http.StatusNotFound:
		classified = NewNotFoundError(message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var fieldErrors []FieldError
		if envelope != nil {
			fieldErrors = envelope.Errors
		}
		classified = NewValidationError(message, fieldErrors)
	case http.StatusTooManyRequests:
		classified = NewRateLimitError(retry.ParseRetryAfter(resp.Header.Get("Retry-After")))
	default:
		return NewAPIError(message, resp.StatusCode, envelope)
	}

	classified.StatusCode = resp.StatusCode
	classified.Response = envelope

	return classified
}

// statusPhrase returns the reason phrase of resp, without the numeric code.
func statusPhrase(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, code))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
