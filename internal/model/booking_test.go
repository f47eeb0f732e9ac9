package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{name: "pending to paid", from: BookingStatusPendingPayment, to: BookingStatusPaid, want: true},
		{name: "pending to cancelled", from: BookingStatusPendingPayment, to: BookingStatusCancelled, want: true},
		{name: "pending skips payment", from: BookingStatusPendingPayment, to: BookingStatusCompleted, want: false},
		{name: "pending to confirmed skips payment", from: BookingStatusPendingPayment, to: BookingStatusConfirmed, want: false},
		{name: "paid to confirmed", from: BookingStatusPaid, to: BookingStatusConfirmed, want: true},
		{name: "paid to completed", from: BookingStatusPaid, to: BookingStatusCompleted, want: true},
		{name: "paid to cancelled", from: BookingStatusPaid, to: BookingStatusCancelled, want: true},
		{name: "paid back to pending", from: BookingStatusPaid, to: BookingStatusPendingPayment, want: false},
		{name: "confirmed to completed", from: BookingStatusConfirmed, to: BookingStatusCompleted, want: true},
		{name: "confirmed to cancelled", from: BookingStatusConfirmed, to: BookingStatusCancelled, want: true},
		{name: "completed is terminal", from: BookingStatusCompleted, to: BookingStatusCancelled, want: false},
		{name: "cancelled is terminal", from: BookingStatusCancelled, to: BookingStatusPaid, want: false},
		{name: "self transition rejected", from: BookingStatusPaid, to: BookingStatusPaid, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestActive(t *testing.T) {
	assert.True(t, BookingStatusPendingPayment.Active())
	assert.True(t, BookingStatusPaid.Active())
	assert.True(t, BookingStatusConfirmed.Active())
	assert.True(t, BookingStatusCompleted.Active())
	assert.False(t, BookingStatusCancelled.Active())
}

func TestNewBookingID(t *testing.T) {
	now := time.Date(2025, time.November, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.UnixMilli(), NewBookingID(now))
}
