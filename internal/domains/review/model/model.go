package model

import (
	"servio/shared/model"
	"time"
)

const (
	TableName  = "reviews"
	EntityName = "review"

	FieldID         = "id"
	FieldBookingID  = "booking_id"
	FieldCustomerID = "customer_id"
	FieldProviderID = "provider_id"
	FieldRating     = "rating"
	FieldComment    = "comment"
	FieldDeletedAt  = "deleted_at"
)

// Review is the customer's verdict on one completed booking. At most one
// review exists per booking.
type Review struct {
	ID         string     `db:"id"`
	BookingID  string     `db:"booking_id"`
	CustomerID string     `db:"customer_id"`
	ProviderID string     `db:"provider_id"`
	Rating     int        `db:"rating"`
	Comment    string     `db:"comment"`
	DeletedAt  *time.Time `db:"deleted_at"`
	model.Metadata
}

const (
	CommentTableName  = "review_comments"
	CommentEntityName = "review_comment"

	CommentFieldID        = "id"
	CommentFieldReviewID  = "review_id"
	CommentFieldAuthorID  = "author_id"
	CommentFieldBody      = "body"
	CommentFieldDeletedAt = "deleted_at"
)

// Comment is a threaded reply on a review, typically the provider's
// response.
type Comment struct {
	ID        string     `db:"id"`
	ReviewID  string     `db:"review_id"`
	AuthorID  string     `db:"author_id"`
	Body      string     `db:"body"`
	DeletedAt *time.Time `db:"deleted_at"`
	model.Metadata
}
