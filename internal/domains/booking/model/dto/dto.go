package dto

import (
	"servio/internal/domains/booking/model"
	"servio/shared"
	"servio/shared/constant"
	gDto "servio/shared/dto"
	gModel "servio/shared/model"
	"servio/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	CustomerID     string   `json:"customer_id"     validate:"omitempty,uuid"`
	ProviderID     string   `json:"provider_id"     validate:"required,uuid"`
	ServiceID      string   `json:"service_id"      validate:"required,uuid"`
	ScheduledStart string   `json:"scheduled_start" validate:"required"`
	ScheduledEnd   string   `json:"scheduled_end"   validate:"required"`
	AddressLine    string   `json:"address_line"    validate:"required,max=200"`
	City           string   `json:"city"            validate:"required,max=100"`
	PostalCode     string   `json:"postal_code"     validate:"omitempty,max=20"`
	AgreedPrice    *float64 `json:"agreed_price"    validate:"omitempty,gt=0"`
	Notes          string   `json:"notes"           validate:"omitempty"`
}

// ToModel parses the interval and builds a pending booking. Price and
// currency are resolved by the service against the catalog entry.
func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	start, err := time.Parse(time.RFC3339, c.ScheduledStart)
	if err != nil {
		return model.Booking{}, err
	}

	end, err := time.Parse(time.RFC3339, c.ScheduledEnd)
	if err != nil {
		return model.Booking{}, err
	}

	customerID := c.CustomerID
	if customerID == constant.Empty {
		customerID = user
	}

	return model.Booking{
		ID:             uuid.NewString(),
		CustomerID:     customerID,
		ProviderID:     c.ProviderID,
		ServiceID:      c.ServiceID,
		Status:         model.StatusPending,
		ScheduledStart: start,
		ScheduledEnd:   end,
		AddressLine:    c.AddressLine,
		City:           c.City,
		PostalCode:     c.PostalCode,
		Notes:          c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateBookingRequest struct {
	CustomerID     string   `json:"customer_id"     validate:"omitempty,uuid"`
	ProviderID     string   `json:"provider_id"     validate:"omitempty,uuid"`
	ServiceID      string   `json:"service_id"      validate:"omitempty,uuid"`
	ScheduledStart string   `json:"scheduled_start" validate:"omitempty"`
	ScheduledEnd   string   `json:"scheduled_end"   validate:"omitempty"`
	AddressLine    string   `json:"address_line"    validate:"omitempty,max=200"`
	City           string   `json:"city"            validate:"omitempty,max=100"`
	PostalCode     string   `json:"postal_code"     validate:"omitempty,max=20"`
	AgreedPrice    *float64 `json:"agreed_price"    validate:"omitempty,gt=0"`
	Notes          string   `json:"notes"           validate:"omitempty"`
}

// Apply lays the patch over the current row and reports whether the change
// touches a participant or the interval, which forces full re-validation.
func (u *UpdateBookingRequest) Apply(current model.Booking, user string) (next model.Booking, revalidate bool, err error) {
	next = current

	if u.CustomerID != constant.Empty && u.CustomerID != current.CustomerID {
		next.CustomerID = u.CustomerID
		revalidate = true
	}

	if u.ProviderID != constant.Empty && u.ProviderID != current.ProviderID {
		next.ProviderID = u.ProviderID
		revalidate = true
	}

	if u.ServiceID != constant.Empty && u.ServiceID != current.ServiceID {
		next.ServiceID = u.ServiceID
		revalidate = true
	}

	if u.ScheduledStart != constant.Empty {
		start, parseErr := time.Parse(time.RFC3339, u.ScheduledStart)
		if parseErr != nil {
			return next, false, parseErr
		}

		if !start.Equal(current.ScheduledStart) {
			next.ScheduledStart = start
			revalidate = true
		}
	}

	if u.ScheduledEnd != constant.Empty {
		end, parseErr := time.Parse(time.RFC3339, u.ScheduledEnd)
		if parseErr != nil {
			return next, false, parseErr
		}

		if !end.Equal(current.ScheduledEnd) {
			next.ScheduledEnd = end
			revalidate = true
		}
	}

	if u.AddressLine != constant.Empty {
		next.AddressLine = u.AddressLine
	}

	if u.City != constant.Empty {
		next.City = u.City
	}

	if u.PostalCode != constant.Empty {
		next.PostalCode = u.PostalCode
	}

	if u.AgreedPrice != nil {
		next.AgreedPrice = *u.AgreedPrice
	}

	if u.Notes != constant.Empty {
		next.Notes = u.Notes
	}

	next.ModifiedAt = timezone.Now()
	next.ModifiedBy = user

	return next, revalidate, nil
}

type TransitionBookingRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled no_show"`
}

type BookingResponse struct {
	ID             string  `json:"id"`
	CustomerID     string  `json:"customer_id"`
	ProviderID     string  `json:"provider_id"`
	ServiceID      string  `json:"service_id"`
	Status         string  `json:"status"`
	ScheduledStart string  `json:"scheduled_start"`
	ScheduledEnd   string  `json:"scheduled_end"`
	AddressLine    string  `json:"address_line"`
	City           string  `json:"city"`
	PostalCode     string  `json:"postal_code"`
	AgreedPrice    float64 `json:"agreed_price"`
	Currency       string  `json:"currency"`
	Notes          string  `json:"notes"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.CustomerID = model.CustomerID
	r.ProviderID = model.ProviderID
	r.ServiceID = model.ServiceID
	r.Status = model.Status
	r.ScheduledStart = timezone.Format(model.ScheduledStart, constant.DateFormat)
	r.ScheduledEnd = timezone.Format(model.ScheduledEnd, constant.DateFormat)
	r.AddressLine = model.AddressLine
	r.City = model.City
	r.PostalCode = model.PostalCode
	r.AgreedPrice = model.AgreedPrice
	r.Currency = model.Currency
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type ScheduleEntryResponse struct {
	BookingID      string `json:"booking_id"`
	ProviderID     string `json:"provider_id"`
	ProviderName   string `json:"provider_name"`
	CustomerName   string `json:"customer_name"`
	ServiceTitle   string `json:"service_title"`
	Status         string `json:"status"`
	ScheduledStart string `json:"scheduled_start"`
	ScheduledEnd   string `json:"scheduled_end"`
	AddressLine    string `json:"address_line"`
	City           string `json:"city"`
}

func (r *ScheduleEntryResponse) FromModel(model model.ScheduleEntry) {
	r.BookingID = model.BookingID
	r.ProviderID = model.ProviderID
	r.ProviderName = model.ProviderName
	r.CustomerName = model.CustomerName
	r.ServiceTitle = model.ServiceTitle
	r.Status = model.Status
	r.ScheduledStart = timezone.Format(model.ScheduledStart, constant.DateFormat)
	r.ScheduledEnd = timezone.Format(model.ScheduledEnd, constant.DateFormat)
	r.AddressLine = model.AddressLine
	r.City = model.City
}

type GetScheduleResponse struct {
	Entries   []ScheduleEntryResponse `json:"entries"`
	TotalData int                     `json:"total_data"`
}

func (r *GetScheduleResponse) FromModels(models []model.ScheduleEntry) {
	r.TotalData = len(models)

	r.Entries = make([]ScheduleEntryResponse, len(models))
	for i, mod := range models {
		r.Entries[i].FromModel(mod)
	}
}

// BookingEvent is the payload published to the booking events topic after a
// lifecycle change commits.
type BookingEvent struct {
	BookingID  string `json:"booking_id"`
	ProviderID string `json:"provider_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}
