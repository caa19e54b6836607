package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"servio/config"
	"servio/infras/otel"
	"servio/infras/postgres"
	auditService "servio/internal/domains/audit/service"
	"servio/internal/domains/catalog/model"
	"servio/internal/domains/catalog/model/dto"
	"servio/internal/domains/catalog/repository"
	userModel "servio/internal/domains/user/model"
	userRepo "servio/internal/domains/user/repository"
	"servio/shared"
	"servio/shared/cache"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	"servio/shared/failure"
	"servio/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetCategory    = "category:get"
	cacheGetAllCategory = "category:gets"
	cacheCountCategory  = "category:count"
	cacheGetService     = "catalogservice:get"
	cacheGetAllService  = "catalogservice:gets"
	cacheCountService   = "catalogservice:count"
)

type Catalog interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id string) (dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCategoriesResponse, error)
	CountCategories(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	UpdateCategory(ctx context.Context, req dto.UpdateCategoryRequest, id string) error
	DeleteCategory(ctx context.Context, id string) error

	CreateService(ctx context.Context, req dto.CreateServiceRequest) (dto.ServiceResponse, error)
	GetService(ctx context.Context, id string) (dto.ServiceResponse, error)
	GetAllServices(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetServicesResponse, error)
	CountServices(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	UpdateService(ctx context.Context, req dto.UpdateServiceRequest, id string) error
	DeactivateService(ctx context.Context, id string) error
}

type serviceImpl struct {
	categories repository.Category
	services   repository.Service
	users      userRepo.User
	auditor    auditService.Recorder
	txm        postgres.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(categories repository.Category, services repository.Service, users userRepo.User, auditor auditService.Recorder, txm postgres.Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Catalog {
	return &serviceImpl{
		categories: categories,
		services:   services,
		users:      users,
		auditor:    auditor,
		txm:        txm,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateCategory")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	category := req.ToModel(actor)

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if category.ParentID != nil {
			parentExists, err := s.categories.ExistTx(ctx, tx, shared.FilterByID(*category.ParentID, model.CategoryFieldID, model.CategoryTableName))
			if err != nil {
				return fmt.Errorf("failed to check parent category: %w", err)
			}

			if !parentExists {
				return failure.Validation("parent category does not exist") // nolint:wrapcheck
			}
		}

		taken, err := s.categories.ExistTx(ctx, tx, siblingNameFilter(category.Name, category.ParentID))
		if err != nil {
			return fmt.Errorf("failed to check category name uniqueness: %w", err)
		}

		if taken {
			return failure.Conflict("a category with this name already exists under the same parent") // nolint:wrapcheck
		}

		if err := s.categories.InsertTx(ctx, tx, category); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.CategoryTableName, category.ID, constant.AuditActionInsert, nil, category)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create category")

		return res, err
	}

	res.FromModel(category)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCategory)
		shared.InvalidateCaches(c, s.cache, cacheCountCategory)
	}()

	return res, nil
}

func (s *serviceImpl) GetCategory(ctx context.Context, id string) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCategory")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetCategory, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for category")

		return res, nil
	}

	category, err := s.categories.Get(ctx, shared.FilterByID(id, model.CategoryFieldID, model.CategoryTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get category")

		return res, fmt.Errorf("failed to get category: %w", err)
	}

	if category.ID == constant.Empty {
		return res, failure.NotFound("category not found") // nolint:wrapcheck
	}

	res.FromModel(category)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save category to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAllCategories(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCategoriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllCategories")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCategory, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for categories")

		return res, nil
	}

	total, err := s.CountCategories(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count categories")

		return res, fmt.Errorf("failed to count categories: %w", err)
	}

	models, err := s.categories.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return res, fmt.Errorf("failed to get categories: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save categories to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) CountCategories(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountCategories")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCategory, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.categories.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count categories")

		return res, fmt.Errorf("failed to count categories: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save category count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateCategory(ctx context.Context, req dto.UpdateCategoryRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateCategory")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateCategoryRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.CategoryFieldID, model.CategoryTableName)

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		before, err := s.categories.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get category: %w", err)
		}

		if before.ID == constant.Empty {
			return failure.NotFound("category not found") // nolint:wrapcheck
		}

		if req.Name != constant.Empty && req.Name != before.Name {
			taken, err := s.categories.ExistTx(ctx, tx, siblingNameFilter(req.Name, before.ParentID))
			if err != nil {
				return fmt.Errorf("failed to check category name uniqueness: %w", err)
			}

			if taken {
				return failure.Conflict("a category with this name already exists under the same parent") // nolint:wrapcheck
			}
		}

		if err := s.categories.UpdateTx(ctx, tx, shared.TransformFields(req, actor), filter); err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}

		after, err := s.categories.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to reread category: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.CategoryTableName, id, constant.AuditActionUpdate, before, after)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update category")

		return err
	}

	s.invalidateCategory(ctx, id)

	return nil
}

func (s *serviceImpl) DeleteCategory(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteCategory")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.CategoryFieldID, model.CategoryTableName)

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		before, err := s.categories.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get category: %w", err)
		}

		if before.ID == constant.Empty {
			return failure.NotFound("category not found") // nolint:wrapcheck
		}

		inUse, err := s.services.ExistTx(ctx, tx, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{Field: model.ServiceFieldCategoryID, Operator: gDto.FilterOperatorEq, Value: id, Table: model.ServiceTableName},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to check category usage: %w", err)
		}

		if inUse {
			return failure.Conflict("category still has services attached") // nolint:wrapcheck
		}

		if err := s.categories.DeleteTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.CategoryTableName, id, constant.AuditActionDelete, before, nil)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete category")

		return err
	}

	s.invalidateCategory(ctx, id)

	return nil
}

func (s *serviceImpl) CreateService(ctx context.Context, req dto.CreateServiceRequest) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateService")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	svc := req.ToModel(actor)

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		provider, err := s.users.GetTx(ctx, tx, shared.FilterByID(req.ProviderID, userModel.FieldID, userModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get provider: %w", err)
		}

		if provider.ID == constant.Empty || provider.Role != constant.RoleProvider {
			return failure.Validation("provider does not exist") // nolint:wrapcheck
		}

		if !provider.IsActive() {
			return failure.Validation("provider is not active") // nolint:wrapcheck
		}

		categoryExists, err := s.categories.ExistTx(ctx, tx, shared.FilterByID(req.CategoryID, model.CategoryFieldID, model.CategoryTableName))
		if err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}

		if !categoryExists {
			return failure.Validation("category does not exist") // nolint:wrapcheck
		}

		if err := s.services.InsertTx(ctx, tx, svc); err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.ServiceTableName, svc.ID, constant.AuditActionInsert, nil, svc)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create service")

		return res, err
	}

	res.FromModel(svc)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
	}()

	return res, nil
}

func (s *serviceImpl) GetService(ctx context.Context, id string) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetService")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetService, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for service")

		return res, nil
	}

	svc, err := s.services.Get(ctx, shared.FilterByID(id, model.ServiceFieldID, model.ServiceTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if svc.ID == constant.Empty {
		return res, failure.NotFound("service not found") // nolint:wrapcheck
	}

	res.FromModel(svc)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAllServices(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllServices")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllService, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for services")

		return res, nil
	}

	total, err := s.CountServices(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	models, err := s.services.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return res, fmt.Errorf("failed to get services: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save services to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) CountServices(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountServices")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountService, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.services.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateService(ctx context.Context, req dto.UpdateServiceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateService")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateServiceRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	err = s.mutateService(ctx, id, shared.TransformFields(req, actor))
	if err != nil {
		log.Error().Err(err).Msg("failed to update service")

		return err
	}

	s.invalidateService(ctx, id)

	return nil
}

// DeactivateService hides a service from new bookings. The row is kept so
// existing bookings and reviews still resolve.
func (s *serviceImpl) DeactivateService(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeactivateService")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	fields := map[string]any{
		model.ServiceFieldActive: false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	err = s.mutateService(ctx, id, fields)
	if err != nil {
		log.Error().Err(err).Msg("failed to deactivate service")

		return err
	}

	s.invalidateService(ctx, id)

	return nil
}

func (s *serviceImpl) mutateService(ctx context.Context, id string, fields map[string]any) error {
	filter := shared.FilterByID(id, model.ServiceFieldID, model.ServiceTableName)

	return s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error { // nolint:wrapcheck
		before, err := s.services.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get service: %w", err)
		}

		if before.ID == constant.Empty {
			return failure.NotFound("service not found") // nolint:wrapcheck
		}

		if err := s.services.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to update service: %w", err)
		}

		after, err := s.services.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to reread service: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.ServiceTableName, id, constant.AuditActionUpdate, before, after)
	})
}

func (s *serviceImpl) invalidateCategory(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetCategory, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete category from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllCategory)
		shared.InvalidateCaches(c, s.cache, cacheCountCategory)
	}()
}

func (s *serviceImpl) invalidateService(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetService, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete service from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
	}()
}

// siblingNameFilter matches categories with the same name under the same
// parent, root categories included.
func siblingNameFilter(name string, parentID *string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.CategoryFieldName, Operator: gDto.FilterOperatorEq, Value: name, Table: model.CategoryTableName},
	}

	if parentID == nil {
		filters = append(filters, gDto.Filter{Field: model.CategoryFieldParentID, Operator: gDto.FilterIsNull, Table: model.CategoryTableName})
	} else {
		filters = append(filters, gDto.Filter{Field: model.CategoryFieldParentID, Operator: gDto.FilterOperatorEq, Value: *parentID, Table: model.CategoryTableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}
