package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"servio/config"
	otelMocks "servio/infras/otel/mocks"
	transactorMocks "servio/infras/postgres/mocks"
	auditMocks "servio/internal/domains/audit/mocks"
	catalogMocks "servio/internal/domains/catalog/mocks"
	"servio/internal/domains/catalog/model"
	"servio/internal/domains/catalog/model/dto"
	"servio/internal/domains/catalog/service"
	userMocks "servio/internal/domains/user/mocks"
	userModel "servio/internal/domains/user/model"
	cacheMocks "servio/shared/cache/mocks"
	"servio/shared/constant"
	"servio/shared/failure"
)

type catalogFixture struct {
	categories *catalogMocks.MockCategory
	services   *catalogMocks.MockService
	users      *userMocks.MockUser
	auditor    *auditMocks.MockRecorder
	svc        service.Catalog
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &catalogFixture{
		categories: catalogMocks.NewMockCategory(ctrl),
		services:   catalogMocks.NewMockService(ctrl),
		users:      userMocks.NewMockUser(ctrl),
		auditor:    auditMocks.NewMockRecorder(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(
		f.categories,
		f.services,
		f.users,
		f.auditor,
		transactorMocks.NewTransactor(),
		&config.Config{},
		mockCache,
		otelMocks.NewOtel(),
	)

	return f
}

func activeProvider() userModel.User {
	return userModel.User{
		ID:     "provider-1",
		Email:  "provider@example.com",
		Role:   constant.RoleProvider,
		Status: constant.UserStatusActive,
	}
}

func TestCatalogService_CreateCategory(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	parentID := "category-0"

	tests := []struct {
		name      string
		req       dto.CreateCategoryRequest
		setupMock func(f *catalogFixture)
		wantErr   string
		wantKind  failure.Kind
	}{
		{
			name: "top-level category",
			req:  dto.CreateCategoryRequest{Name: "Cleaning"},
			setupMock: func(f *catalogFixture) {
				f.categories.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.categories.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.CategoryTableName, gomock.Any(), constant.AuditActionInsert, nil, gomock.Any()).Return(nil)
			},
		},
		{
			name: "nested category checks the parent first",
			req:  dto.CreateCategoryRequest{Name: "Window cleaning", ParentID: parentID},
			setupMock: func(f *catalogFixture) {
				f.categories.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				f.categories.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.categories.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.CategoryTableName, gomock.Any(), constant.AuditActionInsert, nil, gomock.Any()).Return(nil)
			},
		},
		{
			name: "missing parent",
			req:  dto.CreateCategoryRequest{Name: "Window cleaning", ParentID: parentID},
			setupMock: func(f *catalogFixture) {
				f.categories.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  "parent category does not exist",
			wantKind: failure.KindValidation,
		},
		{
			name: "duplicate sibling name",
			req:  dto.CreateCategoryRequest{Name: "Cleaning"},
			setupMock: func(f *catalogFixture) {
				f.categories.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  "a category with this name already exists under the same parent",
			wantKind: failure.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogFixture(t)
			tt.setupMock(f)

			res, err := f.svc.CreateCategory(ctx, tt.req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, failure.IsKind(err, tt.wantKind))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.req.Name, res.Name)
		})
	}
}

func TestCatalogService_DeleteCategory(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	stored := model.Category{ID: "category-1", Name: "Cleaning"}

	t.Run("unused category is removed", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.categories.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored, nil)
		f.services.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.categories.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.CategoryTableName, "category-1", constant.AuditActionDelete, gomock.Any(), nil).Return(nil)

		assert.NoError(t, f.svc.DeleteCategory(ctx, "category-1"))
	})

	t.Run("category with services attached is kept", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.categories.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored, nil)
		f.services.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

		err := f.svc.DeleteCategory(ctx, "category-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "category still has services attached")
		assert.True(t, failure.IsKind(err, failure.KindConflict))
	})

	t.Run("missing category", func(t *testing.T) {
		f := newCatalogFixture(t)

		f.categories.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Category{}, nil)

		err := f.svc.DeleteCategory(ctx, "category-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "category not found")
	})
}

func TestCatalogService_CreateService(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "provider-1")

	req := dto.CreateServiceRequest{
		ProviderID:      "provider-1",
		CategoryID:      "category-1",
		Title:           "Deep cleaning",
		BasePrice:       120.50,
		Currency:        "EUR",
		DurationMinutes: 90,
	}

	tests := []struct {
		name      string
		setupMock func(f *catalogFixture)
		wantErr   string
	}{
		{
			name: "active provider publishes a service",
			setupMock: func(f *catalogFixture) {
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.categories.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				f.services.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.ServiceTableName, gomock.Any(), constant.AuditActionInsert, nil, gomock.Any()).Return(nil)
			},
		},
		{
			name: "provider does not exist",
			setupMock: func(f *catalogFixture) {
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr: "provider does not exist",
		},
		{
			name: "customer cannot publish a service",
			setupMock: func(f *catalogFixture) {
				customer := activeProvider()
				customer.Role = constant.RoleCustomer

				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(customer, nil)
			},
			wantErr: "provider does not exist",
		},
		{
			name: "suspended provider cannot publish",
			setupMock: func(f *catalogFixture) {
				suspended := activeProvider()
				suspended.Status = constant.UserStatusSuspended

				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(suspended, nil)
			},
			wantErr: "provider is not active",
		},
		{
			name: "unknown category",
			setupMock: func(f *catalogFixture) {
				f.users.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(activeProvider(), nil)
				f.categories.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: "category does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogFixture(t)
			tt.setupMock(f)

			res, err := f.svc.CreateService(ctx, req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, failure.IsKind(err, failure.KindValidation))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "Deep cleaning", res.Title)
			assert.True(t, res.Active)
		})
	}
}

func TestCatalogService_DeactivateService(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "provider-1")

	stored := model.Service{
		ID:         "service-1",
		ProviderID: "provider-1",
		Title:      "Deep cleaning",
		Active:     true,
	}

	deactivated := stored
	deactivated.Active = false

	f := newCatalogFixture(t)

	f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(stored, nil)
	f.services.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.services.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(deactivated, nil)
	f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.ServiceTableName, "service-1", constant.AuditActionUpdate, gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, f.svc.DeactivateService(ctx, "service-1"))
}
