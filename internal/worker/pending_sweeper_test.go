package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottagecooking/class-booking/internal/booking"
	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
	appsync "github.com/cottagecooking/class-booking/internal/sync"
)

func seedPending(t *testing.T, mem *store.Memory, age time.Duration) int64 {
	t.Helper()
	ctx := context.Background()

	sessions := []model.ClassSession{{
		ID: 1, Name: "Pasta Workshop", Date: "2099-12-05", MaxSeats: 8,
	}}
	require.NoError(t, store.SetJSON(ctx, mem, store.KeyClassCatalogAdmin, sessions))

	b := model.Booking{
		ID:          4711,
		SessionID:   1,
		Date:        "2099-12-05",
		ClassName:   "Pasta Workshop",
		Seats:       2,
		Status:      model.BookingStatusPendingPayment,
		BookingTime: time.Now().Add(-age).UTC().Format(time.RFC3339),
	}
	require.NoError(t, store.SetJSON(ctx, mem, store.KeyBookingLedger, []model.Booking{b}))
	return b.ID
}

func TestSweepReportOnlyByDefault(t *testing.T) {
	mem := store.NewMemory()
	seedPending(t, mem, 48*time.Hour)

	w := &PendingSweeper{
		Bookings: booking.NewService(mem, appsync.NewPublisher(mem), nil),
		Store:    mem,
	}
	w.sweep(context.Background())

	// TTL zero: stale pending bookings are reported, never touched
	var ledger []model.Booking
	_, err := store.GetJSON(context.Background(), mem, store.KeyBookingLedger, &ledger)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, model.BookingStatusPendingPayment, ledger[0].Status)
}

func TestSweepExpiresBeyondTTL(t *testing.T) {
	mem := store.NewMemory()
	seedPending(t, mem, 48*time.Hour)

	w := &PendingSweeper{
		Bookings: booking.NewService(mem, appsync.NewPublisher(mem), nil),
		Store:    mem,
		TTL:      24 * time.Hour,
	}
	w.sweep(context.Background())

	var ledger []model.Booking
	_, err := store.GetJSON(context.Background(), mem, store.KeyBookingLedger, &ledger)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, model.BookingStatusCancelled, ledger[0].Status)
}

func TestSweepLeavesFreshPendingAlone(t *testing.T) {
	mem := store.NewMemory()
	seedPending(t, mem, time.Hour)

	w := &PendingSweeper{
		Bookings: booking.NewService(mem, appsync.NewPublisher(mem), nil),
		Store:    mem,
		TTL:      24 * time.Hour,
	}
	w.sweep(context.Background())

	var ledger []model.Booking
	_, err := store.GetJSON(context.Background(), mem, store.KeyBookingLedger, &ledger)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPendingPayment, ledger[0].Status)
}
