package model

import "time"

const (
	ScheduleTableName  = "provider_schedule"
	ScheduleEntityName = "schedule_entry"

	ScheduleFieldBookingID      = "booking_id"
	ScheduleFieldProviderID     = "provider_id"
	ScheduleFieldScheduledStart = "scheduled_start"
	ScheduleFieldScheduledEnd   = "scheduled_end"
	ScheduleFieldStatus         = "status"
)

// ScheduleEntry is a read-only row from the provider_schedule view, which
// joins active bookings with participant names and the service title.
type ScheduleEntry struct {
	BookingID      string    `db:"booking_id"`
	ProviderID     string    `db:"provider_id"`
	ProviderName   string    `db:"provider_name"`
	CustomerName   string    `db:"customer_name"`
	ServiceTitle   string    `db:"service_title"`
	Status         string    `db:"status"`
	ScheduledStart time.Time `db:"scheduled_start"`
	ScheduledEnd   time.Time `db:"scheduled_end"`
	AddressLine    string    `db:"address_line"`
	City           string    `db:"city"`
}
