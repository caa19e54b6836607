package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"servio/shared/failure"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind failure.Kind
		code int
	}{
		{
			name: "Validation",
			err:  failure.Validation("provider is not active"),
			kind: failure.KindValidation,
			code: http.StatusUnprocessableEntity,
		},
		{
			name: "Conflict",
			err:  failure.Conflict("time slot overlaps an active booking"),
			kind: failure.KindConflict,
			code: http.StatusConflict,
		},
		{
			name: "IllegalTransition",
			err:  failure.IllegalTransition("cannot move booking from completed to confirmed"),
			kind: failure.KindIllegalTransition,
			code: http.StatusConflict,
		},
		{
			name: "Integrity",
			err:  failure.Integrity("service does not exist"),
			kind: failure.KindIntegrity,
			code: http.StatusNotFound,
		},
		{
			name: "Storage",
			err:  failure.Storage(""),
			kind: failure.KindStorage,
			code: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetKind(tt.err); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
			if !failure.IsKind(tt.err, tt.kind) {
				t.Errorf("expected IsKind to match %s", tt.kind)
			}
		})
	}
}

func TestGetKind_Wrapped(t *testing.T) {
	err := fmt.Errorf("creating booking: %w", failure.Conflict("overlap"))

	if !failure.IsKind(err, failure.KindConflict) {
		t.Error("expected wrapped failure to keep its kind")
	}
}

func TestGetKind_UntypedError(t *testing.T) {
	if failure.GetKind(errors.New("plain")) != "" {
		t.Error("expected empty kind for untyped error")
	}

	if failure.GetCode(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("expected internal server error code for untyped error")
	}
}

func TestStorage_DefaultMessage(t *testing.T) {
	err := failure.Storage("")

	if err.Error() != "storage temporarily unavailable, try again" {
		t.Errorf("unexpected default storage message: %s", err.Error())
	}
}

func TestBadRequest_NilError(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for nil input")
	}
}
