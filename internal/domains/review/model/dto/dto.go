package dto

import (
	"servio/internal/domains/review/model"
	"servio/shared"
	gDto "servio/shared/dto"
	gModel "servio/shared/model"
	"servio/shared/timezone"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
	Comment   string `json:"comment"    validate:"omitempty,max=2000"`
}

// ToModel builds the review skeleton; customer and provider ids are filled
// by the service from the booking row, never trusted from the request.
func (c *SubmitReviewRequest) ToModel(user string) model.Review {
	return model.Review{
		ID:        uuid.NewString(),
		BookingID: c.BookingID,
		Rating:    c.Rating,
		Comment:   c.Comment,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type ReviewResponse struct {
	ID         string `json:"id"`
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	ProviderID string `json:"provider_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	gDto.Metadata
}

func (r *ReviewResponse) FromModel(model model.Review) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.CustomerID = model.CustomerID
	r.ProviderID = model.ProviderID
	r.Rating = model.Rating
	r.Comment = model.Comment
	r.Metadata.FromModel(model.Metadata)
}

type GetReviewsResponse struct {
	Reviews   []ReviewResponse `json:"reviews"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetReviewsResponse) FromModels(models []model.Review, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reviews = make([]ReviewResponse, len(models))
	for i, mod := range models {
		r.Reviews[i].FromModel(mod)
	}
}

type AddCommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func (c *AddCommentRequest) ToModel(reviewID, user string) model.Comment {
	return model.Comment{
		ID:       uuid.NewString(),
		ReviewID: reviewID,
		AuthorID: user,
		Body:     c.Body,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type CommentResponse struct {
	ID       string `json:"id"`
	ReviewID string `json:"review_id"`
	AuthorID string `json:"author_id"`
	Body     string `json:"body"`
	gDto.Metadata
}

func (r *CommentResponse) FromModel(model model.Comment) {
	r.ID = model.ID
	r.ReviewID = model.ReviewID
	r.AuthorID = model.AuthorID
	r.Body = model.Body
	r.Metadata.FromModel(model.Metadata)
}

type GetCommentsResponse struct {
	Comments  []CommentResponse `json:"comments"`
	TotalData int               `json:"total_data"`
}

func (r *GetCommentsResponse) FromModels(models []model.Comment) {
	r.TotalData = len(models)

	r.Comments = make([]CommentResponse, len(models))
	for i, mod := range models {
		r.Comments[i].FromModel(mod)
	}
}
