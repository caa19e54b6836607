package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"servio/config"
	otelMocks "servio/infras/otel/mocks"
	transactorMocks "servio/infras/postgres/mocks"
	auditMocks "servio/internal/domains/audit/mocks"
	bookingMocks "servio/internal/domains/booking/mocks"
	bookingModel "servio/internal/domains/booking/model"
	reviewMocks "servio/internal/domains/review/mocks"
	"servio/internal/domains/review/model"
	"servio/internal/domains/review/model/dto"
	"servio/internal/domains/review/service"
	cacheMocks "servio/shared/cache/mocks"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	"servio/shared/failure"
)

type reviewFixture struct {
	repo     *reviewMocks.MockReview
	comments *reviewMocks.MockComment
	bookings *bookingMocks.MockBooking
	auditor  *auditMocks.MockRecorder
	svc      service.Review
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &reviewFixture{
		repo:     reviewMocks.NewMockReview(ctrl),
		comments: reviewMocks.NewMockComment(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
		auditor:  auditMocks.NewMockRecorder(ctrl),
	}

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(
		f.repo,
		f.comments,
		f.bookings,
		f.auditor,
		transactorMocks.NewTransactor(),
		&config.Config{},
		mockCache,
		otelMocks.NewOtel(),
	)

	return f
}

func completedBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:         "booking-1",
		CustomerID: "customer-1",
		ProviderID: "provider-1",
		ServiceID:  "service-1",
		Status:     bookingModel.StatusCompleted,
	}
}

func actorContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func TestReviewService_Submit(t *testing.T) {
	req := dto.SubmitReviewRequest{
		BookingID: "booking-1",
		Rating:    5,
		Comment:   "spotless work",
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f *reviewFixture)
		wantErr   string
		wantKind  failure.Kind
	}{
		{
			name: "customer reviews their completed booking",
			ctx:  actorContext("customer-1", constant.RoleCustomer),
			setupMock: func(f *reviewFixture) {
				f.bookings.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.TableName, gomock.Any(), constant.AuditActionInsert, nil, gomock.Any()).Return(nil)
			},
		},
		{
			name: "booking does not exist",
			ctx:  actorContext("customer-1", constant.RoleCustomer),
			setupMock: func(f *reviewFixture) {
				f.bookings.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantErr:  "booking does not exist",
			wantKind: failure.KindValidation,
		},
		{
			name: "booking is not completed",
			ctx:  actorContext("customer-1", constant.RoleCustomer),
			setupMock: func(f *reviewFixture) {
				pending := completedBooking()
				pending.Status = bookingModel.StatusConfirmed

				f.bookings.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(pending, nil)
			},
			wantErr:  "only completed bookings can be reviewed",
			wantKind: failure.KindValidation,
		},
		{
			name: "another user cannot review the booking",
			ctx:  actorContext("customer-2", constant.RoleCustomer),
			setupMock: func(f *reviewFixture) {
				f.bookings.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
			},
			wantErr: "only the booking's customer can review it",
		},
		{
			name: "admin may review on the customer's behalf",
			ctx:  actorContext("admin-1", constant.RoleAdmin),
			setupMock: func(f *reviewFixture) {
				f.bookings.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.TableName, gomock.Any(), constant.AuditActionInsert, nil, gomock.Any()).Return(nil)
			},
		},
		{
			name: "booking already reviewed",
			ctx:  actorContext("customer-1", constant.RoleCustomer),
			setupMock: func(f *reviewFixture) {
				f.bookings.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(completedBooking(), nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  "booking has already been reviewed",
			wantKind: failure.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Submit(tt.ctx, req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				if tt.wantKind != "" {
					assert.True(t, failure.IsKind(err, tt.wantKind))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "customer-1", res.CustomerID)
			assert.Equal(t, "provider-1", res.ProviderID)
			assert.Equal(t, 5, res.Rating)
		})
	}
}

func storedReview() model.Review {
	return model.Review{
		ID:         "review-1",
		BookingID:  "booking-1",
		CustomerID: "customer-1",
		ProviderID: "provider-1",
		Rating:     4,
	}
}

func storedComment() model.Comment {
	return model.Comment{
		ID:       "comment-1",
		ReviewID: "review-1",
		AuthorID: "provider-1",
		Body:     "thanks",
	}
}

func TestReviewService_Delete(t *testing.T) {
	t.Run("author soft deletes their review", func(t *testing.T) {
		f := newReviewFixture(t)

		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(storedReview(), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.TableName, "review-1", constant.AuditActionDelete, gomock.Any(), nil).Return(nil)

		assert.NoError(t, f.svc.Delete(actorContext("customer-1", constant.RoleCustomer), "review-1"))
	})

	t.Run("provider cannot delete the customer's review", func(t *testing.T) {
		f := newReviewFixture(t)

		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(storedReview(), nil)

		err := f.svc.Delete(actorContext("provider-1", constant.RoleProvider), "review-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only the review's author can delete it")
	})

	t.Run("already deleted review is not found", func(t *testing.T) {
		f := newReviewFixture(t)

		deleted := storedReview()
		now := time.Now()
		deleted.DeletedAt = &now

		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(deleted, nil)

		err := f.svc.Delete(actorContext("customer-1", constant.RoleCustomer), "review-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "review not found")
	})
}

func TestReviewService_Get(t *testing.T) {
	t.Run("soft deleted review is hidden", func(t *testing.T) {
		f := newReviewFixture(t)

		deleted := storedReview()
		now := time.Now()
		deleted.DeletedAt = &now

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deleted, nil)

		_, err := f.svc.Get(context.Background(), "review-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "review not found")
	})

	t.Run("live review comes back", func(t *testing.T) {
		f := newReviewFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedReview(), nil)

		res, err := f.svc.Get(context.Background(), "review-1")

		assert.NoError(t, err)
		assert.Equal(t, "review-1", res.ID)
	})
}

func TestReviewService_AddComment(t *testing.T) {
	req := dto.AddCommentRequest{Body: "thanks for the feedback"}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f *reviewFixture)
		wantErr   string
	}{
		{
			name: "provider responds to a review",
			ctx:  actorContext("provider-1", constant.RoleProvider),
			setupMock: func(f *reviewFixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(storedReview(), nil)
				f.comments.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.CommentTableName, gomock.Any(), constant.AuditActionInsert, nil, gomock.Any()).Return(nil)
			},
		},
		{
			name: "outsider cannot comment",
			ctx:  actorContext("customer-9", constant.RoleCustomer),
			setupMock: func(f *reviewFixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(storedReview(), nil)
			},
			wantErr: "only the review's participants can comment on it",
		},
		{
			name: "missing review",
			ctx:  actorContext("provider-1", constant.RoleProvider),
			setupMock: func(f *reviewFixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Review{}, nil)
			},
			wantErr: "review not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReviewFixture(t)
			tt.setupMock(f)

			res, err := f.svc.AddComment(tt.ctx, req, "review-1")

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "review-1", res.ReviewID)
			assert.Equal(t, "thanks for the feedback", res.Body)
		})
	}
}

func TestReviewService_GetComments(t *testing.T) {
	t.Run("returns only live comments", func(t *testing.T) {
		f := newReviewFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedReview(), nil)
		f.comments.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Comment, error) {
				var hasDeletedFilter bool

				for _, raw := range filter.Filters {
					if flt, ok := raw.(gDto.Filter); ok && flt.Field == model.CommentFieldDeletedAt && flt.Operator == gDto.FilterIsNull {
						hasDeletedFilter = true
					}
				}

				assert.True(t, hasDeletedFilter)

				return []model.Comment{storedComment()}, nil
			})

		res, err := f.svc.GetComments(context.Background(), "review-1")

		assert.NoError(t, err)
		assert.Len(t, res.Comments, 1)
		assert.Equal(t, "comment-1", res.Comments[0].ID)
	})

	t.Run("comments of a soft-deleted review are hidden", func(t *testing.T) {
		f := newReviewFixture(t)

		deleted := storedReview()
		now := time.Now()
		deleted.DeletedAt = &now

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deleted, nil)

		_, err := f.svc.GetComments(context.Background(), "review-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "review not found")
	})

	t.Run("missing review", func(t *testing.T) {
		f := newReviewFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Review{}, nil)

		_, err := f.svc.GetComments(context.Background(), "review-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "review not found")
	})
}

func TestReviewService_DeleteComment(t *testing.T) {
	t.Run("author deletion keeps the row", func(t *testing.T) {
		f := newReviewFixture(t)

		f.comments.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedComment(), nil)
		f.comments.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Contains(t, fields, model.CommentFieldDeletedAt)

				return nil
			})
		f.auditor.EXPECT().RecordTx(gomock.Any(), gomock.Any(), model.CommentTableName, "comment-1", constant.AuditActionDelete, gomock.Any(), nil).Return(nil)

		assert.NoError(t, f.svc.DeleteComment(actorContext("provider-1", constant.RoleProvider), "review-1", "comment-1"))
	})

	t.Run("already-deleted comment reads as missing", func(t *testing.T) {
		f := newReviewFixture(t)

		gone := storedComment()
		now := time.Now()
		gone.DeletedAt = &now

		f.comments.EXPECT().Get(gomock.Any(), gomock.Any()).Return(gone, nil)

		err := f.svc.DeleteComment(actorContext("provider-1", constant.RoleProvider), "review-1", "comment-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "comment not found")
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		f := newReviewFixture(t)

		f.comments.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedComment(), nil)

		err := f.svc.DeleteComment(actorContext("customer-1", constant.RoleCustomer), "review-1", "comment-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only the comment's author can delete it")
	})
}
