package dto

import (
	"servio/internal/domains/catalog/model"
	"servio/shared"
	gDto "servio/shared/dto"
	gModel "servio/shared/model"
	"servio/shared/timezone"

	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	ParentID    string `json:"parent_id"   validate:"omitempty,uuid"`
	Description string `json:"description" validate:"omitempty"`
}

func (c *CreateCategoryRequest) ToModel(user string) model.Category {
	var parentID *string
	if c.ParentID != "" {
		parentID = &c.ParentID
	}

	return model.Category{
		ID:          uuid.NewString(),
		Name:        c.Name,
		ParentID:    parentID,
		Description: c.Description,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCategoryRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Description string `db:"description" json:"description" validate:"omitempty"`
}

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ParentID    *string `json:"parent_id"`
	Description string  `json:"description"`
	gDto.Metadata
}

func (r *CategoryResponse) FromModel(model model.Category) {
	r.ID = model.ID
	r.Name = model.Name
	r.ParentID = model.ParentID
	r.Description = model.Description
	r.Metadata.FromModel(model.Metadata)
}

type GetCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetCategoriesResponse) FromModels(models []model.Category, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Categories = make([]CategoryResponse, len(models))
	for i, mod := range models {
		r.Categories[i].FromModel(mod)
	}
}

type CreateServiceRequest struct {
	ProviderID      string  `json:"provider_id"      validate:"required,uuid"`
	CategoryID      string  `json:"category_id"      validate:"required,uuid"`
	Title           string  `json:"title"            validate:"required,max=150"`
	Description     string  `json:"description"      validate:"omitempty"`
	BasePrice       float64 `json:"base_price"       validate:"required,gt=0"`
	Currency        string  `json:"currency"         validate:"required,len=3"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0"`
}

func (c *CreateServiceRequest) ToModel(user string) model.Service {
	return model.Service{
		ID:              uuid.NewString(),
		ProviderID:      c.ProviderID,
		CategoryID:      c.CategoryID,
		Title:           c.Title,
		Description:     c.Description,
		BasePrice:       c.BasePrice,
		Currency:        c.Currency,
		DurationMinutes: c.DurationMinutes,
		Active:          true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateServiceRequest struct {
	Title           string   `db:"title"            json:"title"            validate:"omitempty,max=150"`
	Description     string   `db:"description"      json:"description"      validate:"omitempty"`
	BasePrice       *float64 `db:"base_price"       json:"base_price"       validate:"omitempty,gt=0"`
	DurationMinutes *int     `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,gt=0"`
	Active          *bool    `db:"active"           json:"active"           validate:"omitempty"`
}

type ServiceResponse struct {
	ID              string  `json:"id"`
	ProviderID      string  `json:"provider_id"`
	CategoryID      string  `json:"category_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	BasePrice       float64 `json:"base_price"`
	Currency        string  `json:"currency"`
	DurationMinutes int     `json:"duration_minutes"`
	Active          bool    `json:"active"`
	gDto.Metadata
}

func (r *ServiceResponse) FromModel(model model.Service) {
	r.ID = model.ID
	r.ProviderID = model.ProviderID
	r.CategoryID = model.CategoryID
	r.Title = model.Title
	r.Description = model.Description
	r.BasePrice = model.BasePrice
	r.Currency = model.Currency
	r.DurationMinutes = model.DurationMinutes
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}
