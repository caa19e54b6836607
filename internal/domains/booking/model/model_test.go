package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"servio/internal/domains/booking/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to confirmed", model.StatusPending, model.StatusConfirmed, true},
		{"pending to cancelled", model.StatusPending, model.StatusCancelled, true},
		{"pending to no_show", model.StatusPending, model.StatusNoShow, true},
		{"pending to completed", model.StatusPending, model.StatusCompleted, false},
		{"confirmed to completed", model.StatusConfirmed, model.StatusCompleted, true},
		{"confirmed to cancelled", model.StatusConfirmed, model.StatusCancelled, true},
		{"confirmed to no_show", model.StatusConfirmed, model.StatusNoShow, true},
		{"confirmed to pending", model.StatusConfirmed, model.StatusPending, false},
		{"completed is terminal", model.StatusCompleted, model.StatusCancelled, false},
		{"cancelled is terminal", model.StatusCancelled, model.StatusPending, false},
		{"no_show is terminal", model.StatusNoShow, model.StatusConfirmed, false},
		{"same status is not a transition", model.StatusPending, model.StatusPending, false},
		{"unknown status", "unknown", model.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, model.IsTerminal(model.StatusPending))
	assert.False(t, model.IsTerminal(model.StatusConfirmed))
	assert.True(t, model.IsTerminal(model.StatusCompleted))
	assert.True(t, model.IsTerminal(model.StatusCancelled))
	assert.True(t, model.IsTerminal(model.StatusNoShow))
}

func TestIsActive(t *testing.T) {
	assert.True(t, model.IsActive(model.StatusPending))
	assert.True(t, model.IsActive(model.StatusConfirmed))
	assert.False(t, model.IsActive(model.StatusCompleted))
	assert.False(t, model.IsActive(model.StatusCancelled))
	assert.False(t, model.IsActive(model.StatusNoShow))
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	booking := model.Booking{
		ScheduledStart: base,
		ScheduledEnd:   base.Add(time.Hour),
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical interval", base, base.Add(time.Hour), true},
		{"contained interval", base.Add(10 * time.Minute), base.Add(20 * time.Minute), true},
		{"containing interval", base.Add(-time.Hour), base.Add(2 * time.Hour), true},
		{"overlapping start", base.Add(-30 * time.Minute), base.Add(30 * time.Minute), true},
		{"overlapping end", base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"adjacent before", base.Add(-time.Hour), base, false},
		{"adjacent after", base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"disjoint before", base.Add(-2 * time.Hour), base.Add(-time.Hour), false},
		{"disjoint after", base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.start, tt.end))
		})
	}
}
