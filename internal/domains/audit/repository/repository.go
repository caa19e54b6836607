package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"servio/infras/otel"
	"servio/infras/postgres"
	"servio/internal/domains/audit/model"
	gDto "servio/shared/dto"
	gRepo "servio/shared/repository"

	"github.com/jmoiron/sqlx"
)

// Audit is append-only: entries are inserted, never updated or deleted.
type Audit interface {
	Insert(ctx context.Context, model model.Entry) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Entry) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Entry, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Entry, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Entry]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Audit {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Entry](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
