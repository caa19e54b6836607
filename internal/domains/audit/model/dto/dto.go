package dto

import (
	"encoding/json"
	"servio/internal/domains/audit/model"
	"servio/shared"
	"servio/shared/constant"
	"servio/shared/timezone"
)

type EntryResponse struct {
	ID         string          `json:"id"`
	TableName  string          `json:"table_name"`
	RecordID   string          `json:"record_id"`
	Action     string          `json:"action"`
	ActorID    *string         `json:"actor_id"`
	RecordedAt string          `json:"recorded_at"`
	Before     json.RawMessage `json:"before_snapshot,omitempty"`
	After      json.RawMessage `json:"after_snapshot,omitempty"`
}

func (r *EntryResponse) FromModel(model model.Entry) {
	r.ID = model.ID
	r.TableName = model.TableName
	r.RecordID = model.RecordID
	r.Action = model.Action
	r.ActorID = model.ActorID
	r.RecordedAt = timezone.Format(model.RecordedAt, constant.DateFormat)

	if model.Before != nil {
		r.Before = json.RawMessage(*model.Before)
	}

	if model.After != nil {
		r.After = json.RawMessage(*model.After)
	}
}

type GetEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetEntriesResponse) FromModels(models []model.Entry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Entries = make([]EntryResponse, len(models))
	for i, mod := range models {
		r.Entries[i].FromModel(mod)
	}
}

type ExportResponse struct {
	URL       string `json:"url"`
	TotalData int    `json:"total_data"`
}
