package mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"servio/infras/postgres"
)

type transactorImpl struct {
}

// WithTransaction implements postgres.Transactor. It invokes fn with a nil
// transaction handle; repository mocks under test ignore the handle.
func (t *transactorImpl) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := fn(nil); err != nil {
		return postgres.TranslateError(err)
	}

	return nil
}

func NewTransactor() postgres.Transactor {
	return &transactorImpl{}
}
