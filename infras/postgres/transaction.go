package postgres

//go:generate go run go.uber.org/mock/mockgen -source=./transaction.go -destination=./mocks/transaction_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"servio/shared/constant"
	"servio/shared/failure"
)

// Transactor runs a function inside a single database transaction. The
// function's writes, including the audit entry, either all commit or none do.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// WithTransaction opens a serializable transaction on the write connection,
// runs fn, and commits. Any error from fn rolls the whole unit back.
// Serializable isolation plus per-key advisory locks is what prevents two
// concurrent writers from both observing a free slot.
func (c *Connection) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		log.Error().Err(err).Msg("failed to begin transaction")

		return failure.Storage("") //nolint:wrapcheck
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to roll back transaction")
		}

		return TranslateError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit transaction")

		return TranslateError(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

// TranslateError maps driver-level faults onto the failure taxonomy. Typed
// failures pass through untouched so services keep their specific reasons.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constant.PqErrorCodeUniqueViolation:
			return failure.Conflict("a record with the same unique reference already exists") //nolint:wrapcheck
		case constant.PqErrorCodeExclusionViolation:
			return failure.Conflict("time range overlaps an existing active booking") //nolint:wrapcheck
		case constant.PqErrorCodeFkViolation:
			return failure.Integrity("referenced record does not exist") //nolint:wrapcheck
		case constant.PqErrorCodeCheckViolation:
			return failure.Validation("value violates a schema constraint") //nolint:wrapcheck
		case constant.PqErrorCodeSerializationFailure,
			constant.PqErrorCodeDeadlockDetected,
			constant.PqErrorCodeLockNotAvailable,
			constant.PqErrorCodeQueryCanceled:
			return failure.Storage("") //nolint:wrapcheck
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return failure.Storage("") //nolint:wrapcheck
	}

	return err
}
