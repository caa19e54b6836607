package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"servio/config"
	"servio/infras/otel"
	"servio/infras/postgres"
	auditService "servio/internal/domains/audit/service"
	bookingModel "servio/internal/domains/booking/model"
	bookingRepo "servio/internal/domains/booking/repository"
	"servio/internal/domains/review/model"
	"servio/internal/domains/review/model/dto"
	"servio/internal/domains/review/repository"
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
	cacheGetReview    = "review:get"
	cacheGetAllReview = "review:gets"
	cacheCountReview  = "review:count"
)

type Review interface {
	Submit(ctx context.Context, req dto.SubmitReviewRequest) (dto.ReviewResponse, error)
	Get(ctx context.Context, id string) (dto.ReviewResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReviewsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, id string) error

	AddComment(ctx context.Context, req dto.AddCommentRequest, reviewID string) (dto.CommentResponse, error)
	GetComments(ctx context.Context, reviewID string) (dto.GetCommentsResponse, error)
	DeleteComment(ctx context.Context, reviewID, commentID string) error
}

type serviceImpl struct {
	repo     repository.Review
	comments repository.Comment
	bookings bookingRepo.Booking
	auditor  auditService.Recorder
	txm      postgres.Transactor
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Review, comments repository.Comment, bookings bookingRepo.Booking, auditor auditService.Recorder, txm postgres.Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Review {
	return &serviceImpl{
		repo:     repo,
		comments: comments,
		bookings: bookings,
		auditor:  auditor,
		txm:      txm,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Submit gates a review on its booking: the booking must exist, be
// completed, and belong to the caller, and it must not be reviewed yet.
func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitReviewRequest) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	review := req.ToModel(actor)

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetTx(ctx, tx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.Validation("booking does not exist") // nolint:wrapcheck
		}

		if booking.Status != bookingModel.StatusCompleted {
			return failure.Validation("only completed bookings can be reviewed") // nolint:wrapcheck
		}

		if role != constant.RoleAdmin && actor != booking.CustomerID {
			return failure.Forbidden("only the booking's customer can review it") // nolint:wrapcheck
		}

		reviewed, err := s.repo.ExistTx(ctx, tx, activeReviewByBooking(req.BookingID))
		if err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}

		if reviewed {
			return failure.Conflict("booking has already been reviewed") // nolint:wrapcheck
		}

		review.CustomerID = booking.CustomerID
		review.ProviderID = booking.ProviderID

		if err := s.repo.InsertTx(ctx, tx, review); err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.TableName, review.ID, constant.AuditActionInsert, nil, review)
	})
	if err != nil {
		log.Error().Err(err).Str("booking", req.BookingID).Msg("failed to submit review")

		return res, err
	}

	res.FromModel(review)

	s.invalidate(ctx, review.ID)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReviewResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReview, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for review")

		return res, nil
	}

	review, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get review")

		return res, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty || review.DeletedAt != nil {
		return res, failure.NotFound("review not found") // nolint:wrapcheck
	}

	res.FromModel(review)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save review to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter = excludeDeleted(filter)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReview, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reviews")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reviews to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, excludeDeleted(filter))
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	return res, nil
}

// Delete soft-deletes a review; only its author or an admin may do so.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		before, err := s.repo.GetTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get review: %w", err)
		}

		if before.ID == constant.Empty || before.DeletedAt != nil {
			return failure.NotFound("review not found") // nolint:wrapcheck
		}

		if role != constant.RoleAdmin && actor != before.CustomerID {
			return failure.Forbidden("only the review's author can delete it") // nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldDeletedAt:     timezone.Now(),
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: actor,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.TableName, id, constant.AuditActionDelete, before, nil)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete review")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) AddComment(ctx context.Context, req dto.AddCommentRequest, reviewID string) (res dto.CommentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddComment")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	comment := req.ToModel(reviewID, actor)

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		review, err := s.repo.GetTx(ctx, tx, shared.FilterByID(reviewID, model.FieldID, model.TableName))
		if err != nil {
			return fmt.Errorf("failed to get review: %w", err)
		}

		if review.ID == constant.Empty || review.DeletedAt != nil {
			return failure.NotFound("review not found") // nolint:wrapcheck
		}

		if role != constant.RoleAdmin && actor != review.CustomerID && actor != review.ProviderID {
			return failure.Forbidden("only the review's participants can comment on it") // nolint:wrapcheck
		}

		if err := s.comments.InsertTx(ctx, tx, comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.CommentTableName, comment.ID, constant.AuditActionInsert, nil, comment)
	})
	if err != nil {
		log.Error().Err(err).Str("review", reviewID).Msg("failed to add comment")

		return res, err
	}

	res.FromModel(comment)

	s.invalidate(ctx, reviewID)

	return res, nil
}

// GetComments lists a review's live comments. A soft-deleted review hides
// its thread along with it.
func (s *serviceImpl) GetComments(ctx context.Context, reviewID string) (res dto.GetCommentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetComments")
	defer scope.End()
	defer scope.TraceIfError(err)

	review, err := s.repo.Get(ctx, shared.FilterByID(reviewID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("review", reviewID).Msg("failed to get review")

		return res, fmt.Errorf("failed to get review: %w", err)
	}

	if review.ID == constant.Empty || review.DeletedAt != nil {
		return res, failure.NotFound("review not found") // nolint:wrapcheck
	}

	models, err := s.comments.GetAll(ctx, gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.CommentFieldReviewID, Operator: gDto.FilterOperatorEq, Value: reviewID, Table: model.CommentTableName},
			gDto.Filter{Field: model.CommentFieldDeletedAt, Operator: gDto.FilterIsNull, Table: model.CommentTableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("review", reviewID).Msg("failed to get comments")

		return res, fmt.Errorf("failed to get comments: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

func (s *serviceImpl) DeleteComment(ctx context.Context, reviewID, commentID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteComment")
	defer scope.End()
	defer scope.TraceIfError(err)

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.CommentFieldID, Operator: gDto.FilterOperatorEq, Value: commentID, Table: model.CommentTableName},
			gDto.Filter{ArgName: "review_id", Field: model.CommentFieldReviewID, Operator: gDto.FilterOperatorEq, Value: reviewID, Table: model.CommentTableName},
		},
	}

	err = s.txm.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		before, err := s.comments.Get(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to get comment: %w", err)
		}

		if before.ID == constant.Empty || before.DeletedAt != nil {
			return failure.NotFound("comment not found") // nolint:wrapcheck
		}

		if role != constant.RoleAdmin && actor != before.AuthorID {
			return failure.Forbidden("only the comment's author can delete it") // nolint:wrapcheck
		}

		fields := map[string]any{
			model.CommentFieldDeletedAt: timezone.Now(),
			constant.FieldModifiedAt:    timezone.Now(),
			constant.FieldModifiedBy:    actor,
		}

		if err := s.comments.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		return s.auditor.RecordTx(ctx, tx, model.CommentTableName, commentID, constant.AuditActionDelete, before, nil)
	})
	if err != nil {
		log.Error().Err(err).Str("comment", commentID).Msg("failed to delete comment")

		return err
	}

	s.invalidate(ctx, reviewID)

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReview, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete review from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReview)
		shared.InvalidateCaches(c, s.cache, cacheCountReview)
	}()
}

func activeReviewByBooking(bookingID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: bookingID, Table: model.TableName},
			gDto.Filter{Field: model.FieldDeletedAt, Operator: gDto.FilterIsNull, Table: model.TableName},
		},
	}
}

func excludeDeleted(filter gDto.FilterGroup) gDto.FilterGroup {
	if filter.Operator == constant.Empty {
		filter.Operator = gDto.FilterGroupOperatorAnd
	}

	filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldDeletedAt, Operator: gDto.FilterIsNull, Table: model.TableName})

	return filter
}
