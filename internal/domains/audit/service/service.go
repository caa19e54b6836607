package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"servio/config"
	"servio/infras/otel"
	"servio/infras/s3"
	"servio/internal/domains/audit/model"
	"servio/internal/domains/audit/model/dto"
	"servio/internal/domains/audit/repository"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	"servio/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/rs/zerolog/log"
)

const exportContentType = "application/json"

// Recorder appends audit entries inside the same transaction as the
// mutation they describe, so a committed change and its trail are atomic.
type Recorder interface {
	RecordTx(ctx context.Context, sqltx *sqlx.Tx, tableName, recordID, action string, before, after any) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetEntriesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Export(ctx context.Context, filter gDto.FilterGroup) (dto.ExportResponse, error)
}

type serviceImpl struct {
	repo repository.Audit
	s3   s3.S3
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Audit, s3 s3.S3, cfg *config.Config, otel otel.Otel) Recorder {
	return &serviceImpl{
		repo: repo,
		s3:   s3,
		cfg:  cfg,
		otel: otel,
	}
}

func (s *serviceImpl) RecordTx(ctx context.Context, sqltx *sqlx.Tx, tableName, recordID, action string, before, after any) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	beforeSnapshot, err := snapshot(before)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode before snapshot")

		return fmt.Errorf("failed to encode before snapshot: %w", err)
	}

	afterSnapshot, err := snapshot(after)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode after snapshot")

		return fmt.Errorf("failed to encode after snapshot: %w", err)
	}

	entry := model.Entry{
		ID:         uuid.NewString(),
		TableName:  tableName,
		RecordID:   recordID,
		Action:     action,
		ActorID:    actorFromContext(ctx),
		RecordedAt: timezone.Now(),
		Before:     beforeSnapshot,
		After:      afterSnapshot,
	}

	if err = s.repo.InsertTx(ctx, sqltx, entry); err != nil {
		log.Error().Err(err).Str("table", tableName).Str("record", recordID).Msg("failed to record audit entry")

		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetEntriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit entries")

		return res, fmt.Errorf("failed to count audit entries: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit entries")

		return res, fmt.Errorf("failed to get audit entries: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit entries")

		return res, fmt.Errorf("failed to count audit entries: %w", err)
	}

	return res, nil
}

// Export uploads every entry matching the filter as a single JSON object
// and returns the object URL.
func (s *serviceImpl) Export(ctx context.Context, filter gDto.FilterGroup) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer scope.End()
	defer scope.TraceIfError(err)

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldRecordedAt, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit entries for export")

		return res, fmt.Errorf("failed to get audit entries for export: %w", err)
	}

	var payload dto.GetEntriesResponse

	payload.FromModels(models, len(models), 0)

	data, err := json.Marshal(payload.Entries)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode audit export")

		return res, fmt.Errorf("failed to encode audit export: %w", err)
	}

	fileName := fmt.Sprintf("audit-%s.json", timezone.Now().Format("20060102-150405"))

	url, err := s.s3.UploadFileBytes(ctx, s.cfg.External.S3.BucketName, s.cfg.External.S3.AuditPrefix, fileName, exportContentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload audit export")

		return res, fmt.Errorf("failed to upload audit export: %w", err)
	}

	res.URL = url
	res.TotalData = len(models)

	return res, nil
}

func snapshot(value any) (*types.JSONText, error) {
	if value == nil {
		return nil, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	snap := types.JSONText(data)

	return &snap, nil
}

func actorFromContext(ctx context.Context) *string {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == constant.Empty {
		return nil
	}

	return &actor
}
