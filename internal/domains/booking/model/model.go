package model

import (
	"servio/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldCustomerID     = "customer_id"
	FieldProviderID     = "provider_id"
	FieldServiceID      = "service_id"
	FieldStatus         = "status"
	FieldScheduledStart = "scheduled_start"
	FieldScheduledEnd   = "scheduled_end"
	FieldAddressLine    = "address_line"
	FieldCity           = "city"
	FieldPostalCode     = "postal_code"
	FieldAgreedPrice    = "agreed_price"
	FieldCurrency       = "currency"
	FieldNotes          = "notes"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// ActiveStatuses are the statuses that occupy a provider's calendar.
// Only these participate in overlap detection.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

// transitions is the authoritative lifecycle table. Statuses absent as keys
// are terminal.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

func IsActive(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}

// Booking is an appointment between a customer and a provider for one
// service over a half-open interval [ScheduledStart, ScheduledEnd).
type Booking struct {
	ID             string    `db:"id"`
	CustomerID     string    `db:"customer_id"`
	ProviderID     string    `db:"provider_id"`
	ServiceID      string    `db:"service_id"`
	Status         string    `db:"status"`
	ScheduledStart time.Time `db:"scheduled_start"`
	ScheduledEnd   time.Time `db:"scheduled_end"`
	AddressLine    string    `db:"address_line"`
	City           string    `db:"city"`
	PostalCode     string    `db:"postal_code"`
	AgreedPrice    float64   `db:"agreed_price"`
	Currency       string    `db:"currency"`
	Notes          string    `db:"notes"`
	model.Metadata
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back
// bookings where one ends exactly when the other starts do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.ScheduledStart.Before(end) && b.ScheduledEnd.After(start)
}
