package repository

import (
	"context"
	"servio/infras/otel"
	"servio/infras/postgres"
	"servio/internal/domains/booking/model"
	gDto "servio/shared/dto"
	gRepo "servio/shared/repository"
)

// Schedule reads the provider_schedule view. The view only carries active
// bookings, so there is nothing to write through it.
type Schedule interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ScheduleEntry, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type scheduleImpl struct {
	gRepo.Repository[model.ScheduleEntry]
	db   *postgres.Connection
	otel otel.Otel
}

func NewSchedule(db *postgres.Connection, otel otel.Otel) Schedule {
	return &scheduleImpl{
		Repository: gRepo.NewRepository[model.ScheduleEntry](model.ScheduleEntityName, model.ScheduleTableName, model.ScheduleFieldBookingID, db, otel),
		db:         db,
		otel:       otel,
	}
}
