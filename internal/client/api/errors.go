package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/ndvals/notably/internal/client/token"
)

// Kind discriminates classified API errors.
type Kind int

const (
	// KindGeneric covers every failure without a more specific category.
	KindGeneric Kind = iota
	// KindAuthentication marks an invalid session (HTTP 401). Classification
	// itself purges the stored credential.
	KindAuthentication
	// KindRateLimit marks a transient throttle (HTTP 429) carrying retry guidance.
	KindRateLimit
	// KindValidation marks user-correctable field errors (HTTP 400 with an
	// errors map). Never purges the session.
	KindValidation
)

// Error is the single typed representation of a failed remote call. Every
// network failure is converted to exactly one Kind before reaching callers.
type Error struct {
	Kind    Kind
	Status  int
	Message string

	// Fields maps field name to message; set for KindValidation.
	Fields map[string]string

	// ResetAt and WaitMinutes carry retry guidance for KindRateLimit.
	// ResetAt is zero when the server sent no reset header.
	ResetAt     time.Time
	WaitMinutes int

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// transportError wraps a failure that happened before any response arrived
// (dial, TLS, context cancellation) so it crosses the package boundary as a
// classified generic error while staying matchable with errors.Is.
func transportError(err error) *Error {
	return &Error{Kind: KindGeneric, Message: err.Error(), cause: err}
}

// RateLimitResetHeader carries the throttle reset instant as Unix seconds.
const RateLimitResetHeader = "X-RateLimit-Reset"

// RateLimitInfo is the raw rate-limit header triple, kept as strings the way
// the server sent them.
type RateLimitInfo struct {
	Limit     string
	Remaining string
	Reset     string
}

// ParseRateLimitHeaders extracts the rate-limit headers from a response.
func ParseRateLimitHeaders(h http.Header) RateLimitInfo {
	return RateLimitInfo{
		Limit:     h.Get("X-RateLimit-Limit"),
		Remaining: h.Get("X-RateLimit-Remaining"),
		Reset:     h.Get(RateLimitResetHeader),
	}
}

// classifier maps failed HTTP responses onto Error kinds. It is the only
// place where a transport-level auth failure purges the credential store;
// everything else just reacts to the resulting typed error.
type classifier struct {
	store         token.Store
	onAuthFailure func()
	now           func() time.Time
}

// classify applies the classification ladder in priority order:
// 401 → Authentication, 429 → RateLimit, 400+errors → Validation,
// anything else → Generic.
func (c *classifier) classify(status int, header http.Header, env envelope) *Error {
	message := env.Message
	if message == "" {
		message = fmt.Sprintf("HTTP error! status: %d", status)
	}

	switch {
	case status == http.StatusUnauthorized:
		_ = c.store.Remove()
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return &Error{
			Kind:    KindAuthentication,
			Status:  status,
			Message: "Authentication required. Please log in again.",
		}

	case status == http.StatusTooManyRequests:
		e := &Error{
			Kind:    KindRateLimit,
			Status:  status,
			Message: "Rate limit exceeded. Please try again later.",
		}
		if sec, err := strconv.ParseInt(header.Get(RateLimitResetHeader), 10, 64); err == nil {
			e.ResetAt = time.Unix(sec, 0)
			e.WaitMinutes = int(math.Ceil(e.ResetAt.Sub(c.now()).Minutes()))
			e.Message = fmt.Sprintf("Rate limit exceeded. Please try again in %d minutes.", e.WaitMinutes)
		}
		return e

	case status == http.StatusBadRequest && len(env.Errors) > 0:
		return &Error{
			Kind:    KindValidation,
			Status:  status,
			Message: message,
			Fields:  env.Errors,
		}

	default:
		return &Error{
			Kind:    KindGeneric,
			Status:  status,
			Message: message,
		}
	}
}

func isKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// IsAuthError reports whether err is a classified authentication failure.
func IsAuthError(err error) bool { return isKind(err, KindAuthentication) }

// IsRateLimitError reports whether err is a classified rate-limit failure.
func IsRateLimitError(err error) bool { return isKind(err, KindRateLimit) }

// IsValidationError reports whether err is a classified validation failure.
func IsValidationError(err error) bool { return isKind(err, KindValidation) }

// ErrorMessage returns a user-facing message for any error produced by this
// package, falling back to a generic message for unknown values.
func ErrorMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return "An unexpected error occurred"
}

// ValidationFields extracts the field-error map from a classified validation
// error; the result is empty for every other error.
func ValidationFields(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindValidation && e.Fields != nil {
		return e.Fields
	}
	return map[string]string{}
}
