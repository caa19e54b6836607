package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"servio/infras/otel"
	"servio/infras/postgres"
	"servio/internal/domains/booking/model"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	"servio/shared/logger"
	gRepo "servio/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error

	LockProviderTx(ctx context.Context, sqltx *sqlx.Tx, providerID string) error
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error)
	FindOverlappingTx(ctx context.Context, sqltx *sqlx.Tx, providerID string, start, end time.Time, excludeID string) ([]model.Booking, error)
}

// bookingColumns is spelled out so FOR UPDATE reads stay in sync with the
// struct instead of relying on SELECT *.
const bookingColumns = `id, customer_id, provider_id, service_id, status, scheduled_start, scheduled_end,
	address_line, city, postal_code, agreed_price, currency, notes, created_at, modified_at, created_by, modified_by`

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockProviderTx serializes booking writes per provider for the lifetime of
// the transaction. Without it two inserts into an empty calendar see no
// conflicting rows and both commit.
func (repo *repositoryImpl) LockProviderTx(ctx context.Context, sqltx *sqlx.Tx, providerID string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockProviderTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, err = sqltx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", providerID)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock provider calendar: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (res model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetForUpdateTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", bookingColumns, model.TableName)

	err = sqltx.GetContext(ctx, &res, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return res, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to get booking for update: %w", err)
	}

	return res, nil
}

// FindOverlappingTx locks and returns the active bookings whose half-open
// interval intersects [start, end) on the provider's calendar. excludeID
// skips the booking being updated so it never conflicts with itself.
func (repo *repositoryImpl) FindOverlappingTx(ctx context.Context, sqltx *sqlx.Tx, providerID string, start, end time.Time, excludeID string) (res []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlappingTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE provider_id = $1
		  AND status = ANY($2)
		  AND scheduled_start < $3
		  AND scheduled_end > $4
		  AND id <> $5
		ORDER BY scheduled_start
		FOR UPDATE`, bookingColumns, model.TableName)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.SelectContext(ctx, &res, query, providerID, pq.Array(model.ActiveStatuses), end, start, excludeID)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	return res, nil
}
