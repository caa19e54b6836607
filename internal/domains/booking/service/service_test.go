package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"servio/config"
	kafkaMocks "servio/infras/kafka/mocks"
	otelMocks "servio/infras/otel/mocks"
	transactorMocks "servio/infras/postgres/mocks"
	auditMocks "servio/internal/domains/audit/mocks"
	bookingMocks "servio/internal/domains/booking/mocks"
	"servio/internal/domains/booking/model"
	"servio/internal/domains/booking/model/dto"
	"servio/internal/domains/booking/service"
	catalogMocks "servio/internal/domains/catalog/mocks"
	catalogModel "servio/internal/domains/catalog/model"
	userMocks "servio/internal/domains/user/mocks"
	userModel "servio/internal/domains/user/model"
	cacheMocks "servio/shared/cache/mocks"
	"servio/shared/constant"
	"servio/shared/failure"
)

type bookingFixture struct {
	repo     *bookingMocks.MockBooking
	schedule *bookingMocks.MockSchedule
	users    *userMocks.MockUser
	services *catalogMocks.MockService
	auditor  *auditMocks.MockRecorder
	svc      service.Booking
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &bookingFixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		schedule: bookingMocks.NewMockSchedule(ctrl),
		users:    userMocks.NewMockUser(ctrl),
		services: catalogMocks.NewMockService(ctrl),
		auditor:  auditMocks.NewMockRecorder(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(
		f.repo,
		f.schedule,
		f.users,
		f.services,
		f.auditor,
		transactorMocks.NewTransactor(),
		mockKafka,
		&config.Config{},
		mockCache,
		otelMocks.NewOtel(),
	)

	return f
}

func activeCustomer() userModel.User {
	return userModel.User{
		ID:     "customer-1",
		Email:  "customer@example.com",
		Role:   constant.RoleCustomer,
		Status: constant.UserStatusActive,
	}
}

func activeProvider() userModel.User {
	return userModel.User{
		ID:     "provider-1",
		Email:  "provider@example.com",
		Role:   constant.RoleProvider,
		Status: constant.UserStatusActive,
	}
}

func activeService() catalogModel.Service {
	return catalogModel.Service{
		ID:              "service-1",
		ProviderID:      "provider-1",
		CategoryID:      "category-1",
		Title:           "Deep cleaning",
		BasePrice:       120.50,
		Currency:        "EUR",
		DurationMinutes: 90,
		Active:          true,
	}
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		CustomerID:     "customer-1",
		ProviderID:     "provider-1",
		ServiceID:      "service-1",
		ScheduledStart: "2025-06-01T10:00:00Z",
		ScheduledEnd:   "2025-06-01T11:30:00Z",
		AddressLine:    "12 Main Street",
		City:           "Amsterdam",
	}
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "customer-1")

	tests := []struct {
		name      string
		req       func() dto.CreateBookingRequest
		setupMock func(f *bookingFixture)
		wantErr   string
		wantKind  failure.Kind
	}{
		{
			name: "successful creation takes price and currency from the catalog",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
				f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeService(), nil)
				f.repo.EXPECT().LockProviderTx(gomock.Any(), gomock.Any(), "provider-1").Return(nil)
				f.repo.EXPECT().FindOverlappingTx(gomock.Any(), gomock.Any(), "provider-1", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.TableName, gomock.Any(), constant.AuditActionInsert, nil, gomock.Any()).Return(nil)
			},
		},
		{
			name: "malformed interval",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.ScheduledStart = "not-a-time"

				return req
			},
			setupMock: func(f *bookingFixture) {},
			wantErr:   "scheduled times must be RFC3339",
			wantKind:  failure.KindValidation,
		},
		{
			name: "end not after start",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.ScheduledEnd = req.ScheduledStart

				return req
			},
			setupMock: func(f *bookingFixture) {},
			wantErr:   "scheduled_end must be after scheduled_start",
			wantKind:  failure.KindValidation,
		},
		{
			name: "provider does not exist",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr:  "provider does not exist",
			wantKind: failure.KindValidation,
		},
		{
			name: "user without the provider role is not a provider",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				impostor := activeProvider()
				impostor.Role = constant.RoleCustomer

				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(impostor, nil)
			},
			wantErr:  "provider does not exist",
			wantKind: failure.KindValidation,
		},
		{
			name: "provider is not active",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				suspended := activeProvider()
				suspended.Status = constant.UserStatusSuspended

				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(suspended, nil)
			},
			wantErr:  "provider is not active",
			wantKind: failure.KindValidation,
		},
		{
			name: "customer does not exist",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr:  "customer does not exist",
			wantKind: failure.KindValidation,
		},
		{
			name: "customer is not active",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				suspended := activeCustomer()
				suspended.Status = constant.UserStatusSuspended

				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(suspended, nil)
			},
			wantErr:  "customer is not active",
			wantKind: failure.KindValidation,
		},
		{
			name: "service does not exist",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
				f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(catalogModel.Service{}, nil)
			},
			wantErr:  "service does not exist",
			wantKind: failure.KindValidation,
		},
		{
			name: "service is not active",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				inactive := activeService()
				inactive.Active = false

				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
				f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(inactive, nil)
			},
			wantErr:  "service is not active",
			wantKind: failure.KindValidation,
		},
		{
			name: "service belongs to another provider",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				foreign := activeService()
				foreign.ProviderID = "provider-2"

				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
				f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(foreign, nil)
			},
			wantErr:  "service does not belong to the provider",
			wantKind: failure.KindValidation,
		},
		{
			name: "overlapping active booking",
			req:  createRequest,
			setupMock: func(f *bookingFixture) {
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
				f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeService(), nil)
				f.repo.EXPECT().LockProviderTx(gomock.Any(), gomock.Any(), "provider-1").Return(nil)
				f.repo.EXPECT().FindOverlappingTx(gomock.Any(), gomock.Any(), "provider-1", gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{{ID: "booking-7"}}, nil)
			},
			wantErr:  "time range overlaps active booking(s): booking-7",
			wantKind: failure.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(ctx, tt.req())

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, failure.IsKind(err, tt.wantKind))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, "EUR", res.Currency)
			assert.InDelta(t, 120.50, res.AgreedPrice, 0.001)
		})
	}
}

func TestBookingService_Create_ExplicitPriceOverride(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "customer-1")

	f := newBookingFixture(t)

	f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
	f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
	f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeService(), nil)
	f.repo.EXPECT().LockProviderTx(gomock.Any(), gomock.Any(), "provider-1").Return(nil)
	f.repo.EXPECT().FindOverlappingTx(gomock.Any(), gomock.Any(), "provider-1", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.TableName, gomock.Any(), constant.AuditActionInsert, nil, gomock.Any()).Return(nil)

	price := 99.99
	req := createRequest()
	req.AgreedPrice = &price

	res, err := f.svc.Create(ctx, req)

	assert.NoError(t, err)
	assert.InDelta(t, 99.99, res.AgreedPrice, 0.001)
	assert.Equal(t, "EUR", res.Currency)
}

func currentBooking(status string) model.Booking {
	return model.Booking{
		ID:             "booking-1",
		CustomerID:     "customer-1",
		ProviderID:     "provider-1",
		ServiceID:      "service-1",
		Status:         status,
		ScheduledStart: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		ScheduledEnd:   time.Date(2025, 6, 1, 11, 30, 0, 0, time.UTC),
		AgreedPrice:    120.50,
		Currency:       "EUR",
	}
}

func TestBookingService_Update(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "customer-1")

	tests := []struct {
		name      string
		req       dto.UpdateBookingRequest
		setupMock func(f *bookingFixture)
		wantErr   string
		wantKind  failure.Kind
	}{
		{
			name: "empty request",
			req:  dto.UpdateBookingRequest{},
			setupMock: func(f *bookingFixture) {
			},
			wantErr: "update request cannot be empty",
		},
		{
			name: "booking not found",
			req:  dto.UpdateBookingRequest{Notes: "bring ladder"},
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(model.Booking{}, nil)
			},
			wantErr: "booking not found",
		},
		{
			name: "terminal booking cannot change",
			req:  dto.UpdateBookingRequest{Notes: "bring ladder"},
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusCompleted), nil)
			},
			wantErr:  "cannot modify a booking in terminal status completed",
			wantKind: failure.KindIllegalTransition,
		},
		{
			name: "notes-only update skips slot reservation",
			req:  dto.UpdateBookingRequest{Notes: "bring ladder"},
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusPending), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.TableName, "booking-1", constant.AuditActionUpdate, gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "moving the interval re-runs the overlap check",
			req:  dto.UpdateBookingRequest{ScheduledStart: "2025-06-01T12:00:00Z", ScheduledEnd: "2025-06-01T13:00:00Z"},
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusConfirmed), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
				f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeService(), nil)
				f.repo.EXPECT().LockProviderTx(gomock.Any(), gomock.Any(), "provider-1").Return(nil)
				f.repo.EXPECT().FindOverlappingTx(gomock.Any(), gomock.Any(), "provider-1", gomock.Any(), gomock.Any(), "booking-1").
					Return([]model.Booking{{ID: "booking-9"}}, nil)
			},
			wantErr:  "time range overlaps active booking(s): booking-9",
			wantKind: failure.KindConflict,
		},
		{
			name: "interval collapse is rejected",
			req:  dto.UpdateBookingRequest{ScheduledEnd: "2025-06-01T09:00:00Z"},
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusPending), nil)
			},
			wantErr:  "scheduled_end must be after scheduled_start",
			wantKind: failure.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Update(ctx, tt.req, "booking-1")

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				if tt.wantKind != "" {
					assert.True(t, failure.IsKind(err, tt.wantKind))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "bring ladder", res.Notes)
		})
	}
}

func TestBookingService_Transition(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "provider-1")

	tests := []struct {
		name      string
		target    string
		setupMock func(f *bookingFixture)
		wantErr   string
		wantKind  failure.Kind
	}{
		{
			name:   "pending to confirmed re-checks participants",
			target: model.StatusConfirmed,
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusPending), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
				f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeService(), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.TableName, "booking-1", constant.AuditActionUpdate, gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "confirmed to completed also re-checks participants",
			target: model.StatusCompleted,
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusConfirmed), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
				f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeService(), nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.TableName, "booking-1", constant.AuditActionUpdate, gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "pending cannot complete directly",
			target: model.StatusCompleted,
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusPending), nil)
			},
			wantErr:  "cannot transition booking from pending to completed",
			wantKind: failure.KindIllegalTransition,
		},
		{
			name:   "terminal booking cannot move",
			target: model.StatusConfirmed,
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusCancelled), nil)
			},
			wantErr:  "cannot transition booking from cancelled to confirmed",
			wantKind: failure.KindIllegalTransition,
		},
		{
			name:   "confirming with a deactivated provider is rejected",
			target: model.StatusConfirmed,
			setupMock: func(f *bookingFixture) {
				suspended := activeProvider()
				suspended.Status = constant.UserStatusSuspended

				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusPending), nil)
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(suspended, nil)
			},
			wantErr:  "provider is not active",
			wantKind: failure.KindValidation,
		},
		{
			name:   "missing booking",
			target: model.StatusConfirmed,
			setupMock: func(f *bookingFixture) {
				f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(model.Booking{}, nil)
			},
			wantErr: "booking not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Transition(ctx, dto.TransitionBookingRequest{Status: tt.target}, "booking-1")

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				if tt.wantKind != "" {
					assert.True(t, failure.IsKind(err, tt.wantKind))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.target, res.Status)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "customer-1")

	t.Run("cancelling a pending booking keeps the row", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusPending), nil)
		f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
		f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeCustomer(), nil)
		f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeService(), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.TableName, "booking-1", constant.AuditActionUpdate, gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Cancel(ctx, "booking-1"))
	})

	t.Run("cancelling a completed booking is illegal", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(currentBooking(model.StatusCompleted), nil)

		err := f.svc.Cancel(ctx, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindIllegalTransition))
	})
}

func TestBookingService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(currentBooking(model.StatusConfirmed), nil)

		res, err := f.svc.Get(ctx, "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		f := newBookingFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(ctx, "booking-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "booking not found")
	})
}

func TestBookingService_ProviderSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("entries come back in start order", func(t *testing.T) {
		f := newBookingFixture(t)

		entries := []model.ScheduleEntry{
			{BookingID: "booking-1", ProviderID: "provider-1", Status: model.StatusPending},
			{BookingID: "booking-2", ProviderID: "provider-1", Status: model.StatusConfirmed},
		}

		f.schedule.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(entries, nil)

		res, err := f.svc.ProviderSchedule(ctx, "provider-1", "2025-06-01T00:00:00Z", "2025-06-30T00:00:00Z")

		assert.NoError(t, err)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, "booking-1", res.Entries[0].BookingID)
	})

	t.Run("invalid window bound", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.svc.ProviderSchedule(ctx, "provider-1", "yesterday", "")

		assert.Error(t, err)
		assert.True(t, failure.IsKind(err, failure.KindValidation))
	})
}
