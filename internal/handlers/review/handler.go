package review

import (
	"net/http"
	"servio/infras/otel"
	"servio/internal/domains/review/model"
	"servio/internal/domains/review/model/dto"
	"servio/internal/domains/review/service"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	"servio/shared/validator"
	"servio/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Review
	otel    otel.Otel
}

func New(service service.Review, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reviews", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SubmitReview)
		routerGroup.Get("/", handler.GetReviews)
		routerGroup.Get("/{id}", handler.GetReviewByID)
		routerGroup.Delete("/{id}", handler.DeleteReview)
		routerGroup.Post("/{id}/comments", handler.AddComment)
		routerGroup.Get("/{id}/comments", handler.GetComments)
		routerGroup.Delete("/{id}/comments/{commentID}", handler.DeleteComment)
	})
}

// SubmitReview submits a review for a completed booking.
// @Summary Submit a review
// @Description Submit a review for a completed booking. Each booking can be reviewed once.
// @Tags Review
// @Accept json
// @Produce json
// @Param request body dto.SubmitReviewRequest true "Submit Review Request"
// @Success 201 {object} response.Data[dto.ReviewResponse] "Review submitted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews [post]
// @Security BearerAuth
func (handler *Handler) SubmitReview(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitReview")
	defer scope.End()

	req := dto.SubmitReviewRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	review, err := handler.service.Submit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit review")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Review submitted successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, review)
}

// GetReviews retrieves all reviews based on query parameters.
// @Summary Get all reviews
// @Description Retrieve all reviews with optional filtering and pagination.
// @Tags Review
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param provider_id query string false "Filter by provider ID"
// @Param customer_id query string false "Filter by customer ID"
// @Param booking_id query string false "Filter by booking ID"
// @Success 200 {object} response.Data[dto.GetReviewsResponse] "List of reviews"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews [get]
func (handler *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviews")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	providerID := r.URL.Query().Get(model.FieldProviderID)
	customerID := r.URL.Query().Get(model.FieldCustomerID)
	bookingID := r.URL.Query().Get(model.FieldBookingID)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if providerID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldProviderID,
			Operator: gDto.FilterOperatorEq,
			Value:    providerID,
			Table:    model.TableName,
		})
	}

	if customerID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCustomerID,
			Operator: gDto.FilterOperatorEq,
			Value:    customerID,
			Table:    model.TableName,
		})
	}

	if bookingID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldBookingID,
			Operator: gDto.FilterOperatorEq,
			Value:    bookingID,
			Table:    model.TableName,
		})
	}

	reviews, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reviews")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reviews retrieved successfully")

	response.WithJSON(w, http.StatusOK, reviews)
}

// GetReviewByID retrieves a review by its ID.
// @Summary Get a review by ID
// @Description Retrieve a review by its unique identifier.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Data[dto.ReviewResponse] "Review details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id} [get]
func (handler *Handler) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReviewByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	review, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get review by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review retrieved successfully")

	response.WithJSON(w, http.StatusOK, review)
}

// DeleteReview soft deletes a review by its ID.
// @Summary Delete a review by ID
// @Description Soft delete a review; only its author or an admin may delete it.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Message "Review deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReview")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete review")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review deleted successfully")

	response.WithMessage(w, http.StatusOK, "Review deleted successfully")
}

// AddComment adds a comment to a review.
// @Summary Add a comment to a review
// @Description Add a comment to an existing review; only the review's participants or an admin may comment.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param request body dto.AddCommentRequest true "Add Comment Request"
// @Success 201 {object} response.Data[dto.CommentResponse] "Comment added successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id}/comments [post]
// @Security BearerAuth
func (handler *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddComment")
	defer scope.End()

	reviewID := chi.URLParam(r, constant.RequestParamID)

	req := dto.AddCommentRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	comment, err := handler.service.AddComment(ctx, req, reviewID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add comment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Comment added successfully")

	response.WithJSON(w, http.StatusCreated, comment)
}

// GetComments retrieves all comments on a review.
// @Summary Get a review's comments
// @Description Retrieve all comments on a review, oldest first.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} response.Data[dto.GetCommentsResponse] "List of comments"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id}/comments [get]
func (handler *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetComments")
	defer scope.End()

	reviewID := chi.URLParam(r, constant.RequestParamID)

	comments, err := handler.service.GetComments(ctx, reviewID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get comments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Comments retrieved successfully")

	response.WithJSON(w, http.StatusOK, comments)
}

// DeleteComment deletes a comment from a review.
// @Summary Delete a comment by ID
// @Description Delete a comment from a review; only its author or an admin may delete it.
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param commentID path string true "Comment ID"
// @Success 200 {object} response.Message "Comment deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reviews/{id}/comments/{commentID} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteComment")
	defer scope.End()

	reviewID := chi.URLParam(r, constant.RequestParamID)
	commentID := chi.URLParam(r, "commentID")

	if err := handler.service.DeleteComment(ctx, reviewID, commentID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete comment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Comment deleted successfully")

	response.WithMessage(w, http.StatusOK, "Comment deleted successfully")
}
