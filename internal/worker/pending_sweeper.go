// Package worker hosts background loops that run beside the HTTP server.
package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cottagecooking/class-booking/internal/booking"
	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
)

// PendingSweeper watches pending_payment bookings, which hold seats until
// payment lands.  The site historically let them hold seats forever; by
// default the sweeper only reports stale ones so the owner can chase the
// customer.  Setting TTL > 0 opts into automatic cancellation of pending
// bookings older than TTL.
type PendingSweeper struct {
	Bookings *booking.Service
	Store    store.Store
	Interval time.Duration
	TTL      time.Duration // 0 = report-only
}

// reportAfter is the age at which a pending booking is considered stale
// for reporting purposes.
const reportAfter = 24 * time.Hour

// Start runs the sweep loop until ctx is cancelled.
func (w *PendingSweeper) Start(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.WithField("ttl", w.TTL.String()).Info("pending-payment sweeper started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("pending-payment sweeper stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *PendingSweeper) sweep(ctx context.Context) {
	var ledger []model.Booking
	if _, err := store.GetJSON(ctx, w.Store, store.KeyBookingLedger, &ledger); err != nil {
		logrus.WithError(err).Error("sweeper: ledger read failed")
		return
	}
	now := time.Now()
	stale, expired := 0, make([]int64, 0)
	for _, b := range ledger {
		if b.Status != model.BookingStatusPendingPayment {
			continue
		}
		created, err := time.Parse(time.RFC3339, b.BookingTime)
		if err != nil {
			continue
		}
		age := now.Sub(created)
		if age > reportAfter {
			stale++
		}
		if w.TTL > 0 && age > w.TTL {
			expired = append(expired, b.ID)
		}
	}
	if stale > 0 {
		logrus.WithField("count", stale).Warn("sweeper: stale pending-payment bookings holding seats")
	}
	for _, id := range expired {
		if _, err := w.Bookings.Transition(ctx, id, model.BookingStatusCancelled); err != nil {
			logrus.WithError(err).WithField("booking_id", id).Error("sweeper: expire failed")
			continue
		}
		logrus.WithField("booking_id", id).Info("sweeper: pending booking expired")
	}
}
