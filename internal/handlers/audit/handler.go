package audit

import (
	"net/http"
	"time"

	"servio/infras/otel"
	"servio/internal/domains/audit/model"
	"servio/internal/domains/audit/service"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	"servio/shared/failure"
	"servio/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Recorder
	otel    otel.Otel
}

func New(service service.Recorder, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/audit", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetEntries)
		routerGroup.Post("/export", handler.ExportEntries)
	})
}

func filtersFromRequest(r *http.Request) (gDto.FilterGroup, error) {
	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldTableName, model.FieldRecordID, model.FieldAction, model.FieldActorID} {
		value := r.URL.Query().Get(field)
		if value == "" {
			continue
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	if from := r.URL.Query().Get("from"); from != "" {
		fromTime, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return filterGroup, failure.Validation("from must be RFC3339") // nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{ArgName: "from", Field: model.FieldRecordedAt, Operator: gDto.FilterOperatorGreaterEq, Value: fromTime, Table: model.TableName})
	}

	if to := r.URL.Query().Get("to"); to != "" {
		toTime, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return filterGroup, failure.Validation("to must be RFC3339") // nolint:wrapcheck
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{ArgName: "to", Field: model.FieldRecordedAt, Operator: gDto.FilterOperatorLessEq, Value: toTime, Table: model.TableName})
	}

	return filterGroup, nil
}

// GetEntries retrieves audit log entries based on query parameters.
// @Summary Get audit log entries
// @Description Retrieve audit log entries with optional filtering and pagination.
// @Tags Audit
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param table_name query string false "Filter by audited table"
// @Param record_id query string false "Filter by record ID"
// @Param action query string false "Filter by action (insert, update, delete)"
// @Param actor_id query string false "Filter by actor ID"
// @Param from query string false "Only entries recorded at or after this RFC3339 time"
// @Param to query string false "Only entries recorded at or before this RFC3339 time"
// @Success 200 {object} response.Data[dto.GetEntriesResponse] "List of audit entries"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/audit [get]
// @Security BearerAuth
func (handler *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEntries")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filters, err := filtersFromRequest(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	entries, err := handler.service.GetAll(ctx, queryParams, filters)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get audit entries")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Audit entries retrieved successfully")

	response.WithJSON(w, http.StatusOK, entries)
}

// ExportEntries exports audit log entries to object storage.
// @Summary Export audit log entries
// @Description Export the matching audit log entries as a JSON file to object storage and return its URL.
// @Tags Audit
// @Accept json
// @Produce json
// @Param table_name query string false "Filter by audited table"
// @Param record_id query string false "Filter by record ID"
// @Param action query string false "Filter by action (insert, update, delete)"
// @Param actor_id query string false "Filter by actor ID"
// @Param from query string false "Only entries recorded at or after this RFC3339 time"
// @Param to query string false "Only entries recorded at or before this RFC3339 time"
// @Success 200 {object} response.Data[dto.ExportResponse] "Export file location"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/audit/export [post]
// @Security BearerAuth
func (handler *Handler) ExportEntries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportEntries")
	defer scope.End()

	filters, err := filtersFromRequest(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	export, err := handler.service.Export(ctx, filters)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export audit entries")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Audit entries exported successfully")

	response.WithJSON(w, http.StatusOK, export)
}
