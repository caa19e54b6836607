package dto

import (
	"servio/internal/domains/user/model"
	"servio/shared"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	gModel "servio/shared/model"
	"servio/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email    string `json:"email"     validate:"required,email,max=100"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone"     validate:"omitempty,max=20"`
	Role     string `json:"role"      validate:"required,oneof=admin provider customer"`
	Status   string `json:"status"    validate:"omitempty,oneof=pending active suspended blocked"`
}

func (c *CreateUserRequest) ToModel(user string) model.User {
	status := c.Status
	if status == constant.Empty {
		status = constant.UserStatusPending
	}

	return model.User{
		ID:       uuid.NewString(),
		Email:    c.Email,
		FullName: c.FullName,
		Phone:    c.Phone,
		Role:     c.Role,
		Status:   status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateUserRequest struct {
	FullName string `db:"full_name" json:"full_name" validate:"omitempty,max=100"`
	Phone    string `db:"phone"     json:"phone"     validate:"omitempty,max=20"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active suspended blocked"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	DeletedAt string `json:"deleted_at,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Email = model.Email
	r.FullName = model.FullName
	r.Phone = model.Phone
	r.Role = model.Role
	r.Status = model.Status

	if model.DeletedAt != nil {
		r.DeletedAt = timezone.Format(*model.DeletedAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
