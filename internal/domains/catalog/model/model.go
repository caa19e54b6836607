package model

import (
	"servio/shared/model"
)

// The catalog holds what providers offer: a category tree and the
// bookable services attached to it.

const (
	CategoryTableName  = "service_categories"
	CategoryEntityName = "service_category"

	CategoryFieldID          = "id"
	CategoryFieldName        = "name"
	CategoryFieldParentID    = "parent_id"
	CategoryFieldDescription = "description"
)

type Category struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	ParentID    *string `db:"parent_id"`
	Description string  `db:"description"`
	model.Metadata
}

const (
	ServiceTableName  = "services"
	ServiceEntityName = "catalog_service"

	ServiceFieldID              = "id"
	ServiceFieldProviderID      = "provider_id"
	ServiceFieldCategoryID      = "category_id"
	ServiceFieldTitle           = "title"
	ServiceFieldDescription     = "description"
	ServiceFieldBasePrice       = "base_price"
	ServiceFieldCurrency        = "currency"
	ServiceFieldDurationMinutes = "duration_minutes"
	ServiceFieldActive          = "active"
)

type Service struct {
	ID              string  `db:"id"`
	ProviderID      string  `db:"provider_id"`
	CategoryID      string  `db:"category_id"`
	Title           string  `db:"title"`
	Description     string  `db:"description"`
	BasePrice       float64 `db:"base_price"`
	Currency        string  `db:"currency"`
	DurationMinutes int     `db:"duration_minutes"`
	Active          bool    `db:"active"`
	model.Metadata
}
