package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so callers can branch on it programmatically
// instead of matching messages or HTTP codes.
type Kind string

const (
	// KindValidation marks a cross-entity precondition failure (bad role,
	// inactive participant, inactive service). Recoverable by fixing input.
	KindValidation Kind = "validation"
	// KindConflict marks an interval overlap with another active booking of
	// the same provider, or a uniqueness violation (duplicate review).
	KindConflict Kind = "conflict"
	// KindIllegalTransition marks a lifecycle transition that is not defined
	// from the booking's current status.
	KindIllegalTransition Kind = "illegal_transition"
	// KindIntegrity marks a dangling reference (the entity does not exist).
	KindIntegrity Kind = "integrity"
	// KindStorage marks a durability-layer fault (timeout, deadlock,
	// serialization abort). Safe to retry by the caller, never retried here.
	KindStorage Kind = "storage"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Kind    Kind   `json:"kind,omitempty"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}

// Error returns the failure message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// Validation returns a failure for a rejected cross-entity precondition.
func Validation(msg string) error {
	return &Failure{
		Kind:    KindValidation,
		Code:    http.StatusUnprocessableEntity,
		Message: msg,
	}
}

// Conflict returns a failure for overlap and uniqueness violations.
func Conflict(msg string) error {
	return &Failure{
		Kind:    KindConflict,
		Code:    http.StatusConflict,
		Message: msg,
	}
}

// IllegalTransition returns a failure for an undefined lifecycle transition.
func IllegalTransition(msg string) error {
	return &Failure{
		Kind:    KindIllegalTransition,
		Code:    http.StatusConflict,
		Message: msg,
	}
}

// Integrity returns a failure for a reference to a missing entity.
func Integrity(msg string) error {
	return &Failure{
		Kind:    KindIntegrity,
		Code:    http.StatusNotFound,
		Message: msg,
	}
}

// Storage returns a failure for a durability-layer fault. The message shown
// to callers is generic; details stay in the log.
func Storage(msg string) error {
	if msg == "" {
		msg = "storage temporarily unavailable, try again"
	}

	return &Failure{
		Kind:    KindStorage,
		Code:    http.StatusServiceUnavailable,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the failure kind, or the empty kind for untyped errors.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return ""
}

// IsKind reports whether the error is a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}
