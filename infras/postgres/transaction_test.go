package postgres_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"servio/infras/postgres"
	"servio/shared/constant"
	"servio/shared/failure"
)

func pqError(code string) error {
	return fmt.Errorf("exec failed: %w", &pq.Error{Code: pq.ErrorCode(code)})
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind failure.Kind
	}{
		{
			name:     "unique violation is a conflict",
			err:      pqError(constant.PqErrorCodeUniqueViolation),
			wantKind: failure.KindConflict,
		},
		{
			name:     "exclusion violation is a conflict",
			err:      pqError(constant.PqErrorCodeExclusionViolation),
			wantKind: failure.KindConflict,
		},
		{
			name:     "foreign key violation is an integrity failure",
			err:      pqError(constant.PqErrorCodeFkViolation),
			wantKind: failure.KindIntegrity,
		},
		{
			name:     "check violation is a validation failure",
			err:      pqError(constant.PqErrorCodeCheckViolation),
			wantKind: failure.KindValidation,
		},
		{
			name:     "serialization abort is a storage failure",
			err:      pqError(constant.PqErrorCodeSerializationFailure),
			wantKind: failure.KindStorage,
		},
		{
			name:     "deadlock is a storage failure",
			err:      pqError(constant.PqErrorCodeDeadlockDetected),
			wantKind: failure.KindStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := postgres.TranslateError(tt.err)

			assert.Error(t, err)
			assert.True(t, failure.IsKind(err, tt.wantKind))
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, postgres.TranslateError(nil))
	})

	t.Run("typed failure keeps its reason", func(t *testing.T) {
		orig := failure.Conflict("time range overlaps active booking(s): booking-7")

		err := postgres.TranslateError(orig)

		assert.Equal(t, orig, err)
	})

	t.Run("unknown error passes through untyped", func(t *testing.T) {
		orig := errors.New("connection reset")

		assert.Equal(t, orig, postgres.TranslateError(orig))
	})
}
