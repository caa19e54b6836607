package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"servio/config"
	"servio/infras/kafka"
	"servio/infras/otel"
	"servio/infras/postgres"
	auditService "servio/internal/domains/audit/service"
	"servio/internal/domains/booking/model"
	"servio/internal/domains/booking/model/dto"
	"servio/internal/domains/booking/repository"
	catalogModel "servio/internal/domains/catalog/model"
	catalogRepo "servio/internal/domains/catalog/repository"
	userModel "servio/internal/domains/user/model"
	userRepo "servio/internal/domains/user/repository"
	"servio/shared"
	"servio/shared/cache"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	"servio/shared/failure"
	"servio/shared/timezone"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Transition(ctx context.Context, req dto.TransitionBookingRequest, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) error
	ProviderSchedule(ctx context.Context, providerID, from, to string) (dto.GetScheduleResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	schedule repository.Schedule
	users    userRepo.User
	services catalogRepo.Service
	auditor  auditService.Recorder
	txm      postgres.Transactor
	kafka    kafka.Client
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Booking, schedule repository.Schedule, users userRepo.User, services catalogRepo.Service, auditor auditService.Recorder, txm postgres.Transactor, kafka kafka.Client, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		schedule: schedule,
		users:    users,
		services: services,
		auditor:  auditor,
		txm:      txm,
		kafka:    kafka,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(actor)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking interval")

		return res, failure.Validation(fmt.Sprintf("scheduled times must be RFC3339: %v", err)) // nolint:wrapcheck
	}

	if err = validateInterval(booking.ScheduledStart, booking.ScheduledEnd); err != nil {
		return res, err
	}

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		svc, err := s.verifyParticipants(ctx, tx, booking)
		if err != nil {
			return err
		}

		booking.Currency = svc.Currency
		booking.AgreedPrice = svc.BasePrice

		if req.AgreedPrice != nil {
			booking.AgreedPrice = *req.AgreedPrice
		}

		if err := s.reserveSlot(ctx, tx, booking); err != nil {
			return err
		}

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.TableName, booking.ID, constant.AuditActionInsert, nil, booking)
	})
	if err != nil {
		log.Error().Err(err).Str("provider", booking.ProviderID).Msg("failed to create booking")

		return res, err
	}

	res.FromModel(booking)

	s.invalidate(ctx, booking.ID)
	s.publishEvent(ctx, booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var next model.Booking

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if model.IsTerminal(current.Status) {
			return failure.IllegalTransition(fmt.Sprintf("cannot modify a booking in terminal status %s", current.Status)) // nolint:wrapcheck
		}

		patched, revalidate, err := req.Apply(current, actor)
		if err != nil {
			return failure.Validation(fmt.Sprintf("scheduled times must be RFC3339: %v", err)) // nolint:wrapcheck
		}

		if err := validateInterval(patched.ScheduledStart, patched.ScheduledEnd); err != nil {
			return err
		}

		if revalidate {
			svc, err := s.verifyParticipants(ctx, tx, patched)
			if err != nil {
				return err
			}

			if patched.ServiceID != current.ServiceID {
				patched.Currency = svc.Currency

				if req.AgreedPrice == nil {
					patched.AgreedPrice = svc.BasePrice
				}
			}

			if err := s.reserveSlot(ctx, tx, patched); err != nil {
				return err
			}
		}

		if err := s.repo.UpdateTx(ctx, tx, updateFields(patched), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		next = patched

		return s.auditor.RecordTx(ctx, tx, model.TableName, id, constant.AuditActionUpdate, current, patched)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, err
	}

	res.FromModel(next)

	s.invalidate(ctx, id)

	return res, nil
}

func (s *serviceImpl) Transition(ctx context.Context, req dto.TransitionBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var next model.Booking

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if !model.CanTransition(current.Status, req.Status) {
			return failure.IllegalTransition(fmt.Sprintf("cannot transition booking from %s to %s", current.Status, req.Status)) // nolint:wrapcheck
		}

		// Participants could have been deactivated since creation, so every
		// transition re-runs the admission checks, not just confirming ones.
		if _, err := s.verifyParticipants(ctx, tx, current); err != nil {
			return err
		}

		fields := map[string]any{
			model.FieldStatus:        req.Status,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: actor,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to transition booking: %w", err)
		}

		next = current
		next.Status = req.Status
		next.ModifiedAt = timezone.Now()
		next.ModifiedBy = actor

		return s.auditor.RecordTx(ctx, tx, model.TableName, id, constant.AuditActionUpdate, current, next)
	})
	if err != nil {
		log.Error().Err(err).Str("target", req.Status).Msg("failed to transition booking")

		return res, err
	}

	res.FromModel(next)

	s.invalidate(ctx, id)
	s.publishEvent(ctx, next)

	return res, nil
}

// Cancel is what deletion means for bookings: the row is kept and its slot
// released through the lifecycle, never removed from history.
func (s *serviceImpl) Cancel(ctx context.Context, id string) error {
	_, err := s.Transition(ctx, dto.TransitionBookingRequest{Status: model.StatusCancelled}, id)

	return err
}

func (s *serviceImpl) ProviderSchedule(ctx context.Context, providerID, from, to string) (res dto.GetScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ProviderSchedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	filters := []any{
		gDto.Filter{Field: model.ScheduleFieldProviderID, Operator: gDto.FilterOperatorEq, Value: providerID, Table: model.ScheduleTableName},
	}

	if from != constant.Empty {
		fromTime, parseErr := time.Parse(time.RFC3339, from)
		if parseErr != nil {
			return res, failure.Validation("from must be RFC3339") // nolint:wrapcheck
		}

		filters = append(filters, gDto.Filter{ArgName: "from", Field: model.ScheduleFieldScheduledEnd, Operator: gDto.FilterOperatorGreaterEq, Value: fromTime, Table: model.ScheduleTableName})
	}

	if to != constant.Empty {
		toTime, parseErr := time.Parse(time.RFC3339, to)
		if parseErr != nil {
			return res, failure.Validation("to must be RFC3339") // nolint:wrapcheck
		}

		filters = append(filters, gDto.Filter{ArgName: "to", Field: model.ScheduleFieldScheduledStart, Operator: gDto.FilterOperatorLessEq, Value: toTime, Table: model.ScheduleTableName})
	}

	entries, err := s.schedule.GetAll(ctx, gDto.QueryParams{SortBy: model.ScheduleFieldScheduledStart, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	})
	if err != nil {
		log.Error().Err(err).Str("provider", providerID).Msg("failed to get provider schedule")

		return res, fmt.Errorf("failed to get provider schedule: %w", err)
	}

	res.FromModels(entries)

	return res, nil
}

// verifyParticipants runs the ordered admission checks against transaction
// state. Each failure carries a distinct reason so callers can tell which
// gate rejected the booking.
func (s *serviceImpl) verifyParticipants(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (svc catalogModel.Service, err error) {
	provider, err := s.users.GetTx(ctx, tx, shared.FilterByID(booking.ProviderID, userModel.FieldID, userModel.TableName))
	if err != nil {
		return svc, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID == constant.Empty || provider.Role != constant.RoleProvider {
		return svc, failure.Validation("provider does not exist") // nolint:wrapcheck
	}

	if !provider.IsActive() {
		return svc, failure.Validation("provider is not active") // nolint:wrapcheck
	}

	customer, err := s.users.GetTx(ctx, tx, shared.FilterByID(booking.CustomerID, userModel.FieldID, userModel.TableName))
	if err != nil {
		return svc, fmt.Errorf("failed to get customer: %w", err)
	}

	if customer.ID == constant.Empty || customer.Role != constant.RoleCustomer {
		return svc, failure.Validation("customer does not exist") // nolint:wrapcheck
	}

	if !customer.IsActive() {
		return svc, failure.Validation("customer is not active") // nolint:wrapcheck
	}

	svc, err = s.services.GetTx(ctx, tx, shared.FilterByID(booking.ServiceID, catalogModel.ServiceFieldID, catalogModel.ServiceTableName))
	if err != nil {
		return svc, fmt.Errorf("failed to get service: %w", err)
	}

	if svc.ID == constant.Empty {
		return svc, failure.Validation("service does not exist") // nolint:wrapcheck
	}

	if !svc.Active {
		return svc, failure.Validation("service is not active") // nolint:wrapcheck
	}

	if svc.ProviderID != booking.ProviderID {
		return svc, failure.Validation("service does not belong to the provider") // nolint:wrapcheck
	}

	return svc, nil
}

// reserveSlot claims the interval on the provider's calendar. The advisory
// lock serializes concurrent attempts so the overlap scan sees every
// competing row; the exclusion constraint in the schema backstops it.
func (s *serviceImpl) reserveSlot(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error {
	if err := s.repo.LockProviderTx(ctx, tx, booking.ProviderID); err != nil {
		return fmt.Errorf("failed to lock provider calendar: %w", err)
	}

	overlapping, err := s.repo.FindOverlappingTx(ctx, tx, booking.ProviderID, booking.ScheduledStart, booking.ScheduledEnd, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to check overlapping bookings: %w", err)
	}

	if len(overlapping) > 0 {
		ids := make([]string, len(overlapping))
		for i, b := range overlapping {
			ids[i] = b.ID
		}

		return failure.Conflict(fmt.Sprintf("time range overlaps active booking(s): %s", strings.Join(ids, ", "))) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) publishEvent(ctx context.Context, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := dto.BookingEvent{
			BookingID:  booking.ID,
			ProviderID: booking.ProviderID,
			CustomerID: booking.CustomerID,
			Status:     booking.Status,
			OccurredAt: timezone.Format(timezone.Now(), constant.DateFormat),
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, kafka.Message{Key: booking.ID, Value: event}); err != nil {
			log.Error().Err(err).Str("booking", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func validateInterval(start, end time.Time) error {
	if !start.Before(end) {
		return failure.Validation("scheduled_end must be after scheduled_start") // nolint:wrapcheck
	}

	return nil
}

func updateFields(b model.Booking) map[string]any {
	return map[string]any{
		model.FieldCustomerID:     b.CustomerID,
		model.FieldProviderID:     b.ProviderID,
		model.FieldServiceID:      b.ServiceID,
		model.FieldScheduledStart: b.ScheduledStart,
		model.FieldScheduledEnd:   b.ScheduledEnd,
		model.FieldAddressLine:    b.AddressLine,
		model.FieldCity:           b.City,
		model.FieldPostalCode:     b.PostalCode,
		model.FieldAgreedPrice:    b.AgreedPrice,
		model.FieldCurrency:       b.Currency,
		model.FieldNotes:          b.Notes,
		constant.FieldModifiedAt:  b.ModifiedAt,
		constant.FieldModifiedBy:  b.ModifiedBy,
	}
}
