package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"servio/config"
	otelMocks "servio/infras/otel/mocks"
	s3Mocks "servio/infras/s3/mocks"
	auditMocks "servio/internal/domains/audit/mocks"
	"servio/internal/domains/audit/model"
	"servio/internal/domains/audit/service"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	"servio/shared/timezone"
)

type auditFixture struct {
	repo *auditMocks.MockAudit
	s3   *s3Mocks.MockS3
	svc  service.Recorder
}

func newAuditFixture(t *testing.T) *auditFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cfg := &config.Config{}
	cfg.External.S3.BucketName = "servio-exports"
	cfg.External.S3.AuditPrefix = "audit"

	f := &auditFixture{
		repo: auditMocks.NewMockAudit(ctrl),
		s3:   s3Mocks.NewMockS3(ctrl),
	}

	f.svc = service.New(f.repo, f.s3, cfg, otelMocks.NewOtel())

	return f
}

func storedEntry() model.Entry {
	before := types.JSONText(`{"status":"pending"}`)
	after := types.JSONText(`{"status":"confirmed"}`)
	actor := "admin-1"

	return model.Entry{
		ID:         "entry-1",
		TableName:  "bookings",
		RecordID:   "booking-1",
		Action:     constant.AuditActionUpdate,
		ActorID:    &actor,
		RecordedAt: timezone.Now(),
		Before:     &before,
		After:      &after,
	}
}

func TestAuditService_RecordTx(t *testing.T) {
	type row struct {
		Status string `json:"status"`
	}

	t.Run("update entry carries both snapshots and the actor", func(t *testing.T) {
		f := newAuditFixture(t)
		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, entry model.Entry) error {
				assert.Equal(t, "bookings", entry.TableName)
				assert.Equal(t, "booking-1", entry.RecordID)
				assert.Equal(t, constant.AuditActionUpdate, entry.Action)
				assert.NotNil(t, entry.ActorID)
				assert.Equal(t, "admin-1", *entry.ActorID)
				assert.NotEmpty(t, entry.ID)
				assert.JSONEq(t, `{"status":"pending"}`, string(*entry.Before))
				assert.JSONEq(t, `{"status":"confirmed"}`, string(*entry.After))

				return nil
			})

		err := f.svc.RecordTx(ctx, nil, "bookings", "booking-1", constant.AuditActionUpdate,
			row{Status: "pending"}, row{Status: "confirmed"})

		assert.NoError(t, err)
	})

	t.Run("insert entry has no before snapshot", func(t *testing.T) {
		f := newAuditFixture(t)

		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, entry model.Entry) error {
				assert.Equal(t, constant.AuditActionInsert, entry.Action)
				assert.Nil(t, entry.Before)
				assert.NotNil(t, entry.After)

				return nil
			})

		err := f.svc.RecordTx(context.Background(), nil, "users", "user-1", constant.AuditActionInsert,
			nil, row{Status: "pending"})

		assert.NoError(t, err)
	})

	t.Run("unauthenticated actor is recorded as nil", func(t *testing.T) {
		f := newAuditFixture(t)

		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ any, entry model.Entry) error {
				assert.Nil(t, entry.ActorID)

				return nil
			})

		err := f.svc.RecordTx(context.Background(), nil, "users", "user-1", constant.AuditActionDelete,
			row{Status: "active"}, nil)

		assert.NoError(t, err)
	})

	t.Run("insert failure surfaces", func(t *testing.T) {
		f := newAuditFixture(t)

		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection reset"))

		err := f.svc.RecordTx(context.Background(), nil, "users", "user-1", constant.AuditActionInsert,
			nil, row{Status: "pending"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to record audit entry")
	})
}

func TestAuditService_GetAll(t *testing.T) {
	t.Run("returns entries with pagination", func(t *testing.T) {
		f := newAuditFixture(t)

		params := gDto.QueryParams{Limit: 10, SortBy: model.FieldRecordedAt, SortDir: gDto.SortDirDesc}

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Entry{storedEntry()}, nil)

		res, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Entries, 1)
		assert.Equal(t, "entry-1", res.Entries[0].ID)
		assert.Equal(t, constant.AuditActionUpdate, res.Entries[0].Action)
	})

	t.Run("count failure surfaces", func(t *testing.T) {
		f := newAuditFixture(t)

		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("connection reset"))

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{}, gDto.FilterGroup{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to count audit entries")
	})
}

func TestAuditService_Export(t *testing.T) {
	t.Run("uploads matching entries and returns the object url", func(t *testing.T) {
		f := newAuditFixture(t)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Entry{storedEntry()}, nil)

		f.s3.EXPECT().
			UploadFileBytes(gomock.Any(), "servio-exports", "audit", gomock.Any(), "application/json", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, fileName, _ string, data []byte) (string, error) {
				assert.Contains(t, fileName, "audit-")

				var entries []map[string]any

				assert.NoError(t, json.Unmarshal(data, &entries))
				assert.Len(t, entries, 1)

				return "https://servio-exports.s3.amazonaws.com/audit/" + fileName, nil
			})

		res, err := f.svc.Export(context.Background(), gDto.FilterGroup{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Contains(t, res.URL, "servio-exports")
	})

	t.Run("upload failure surfaces", func(t *testing.T) {
		f := newAuditFixture(t)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Entry{storedEntry()}, nil)

		f.s3.EXPECT().
			UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("access denied"))

		_, err := f.svc.Export(context.Background(), gDto.FilterGroup{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload audit export")
	})
}
