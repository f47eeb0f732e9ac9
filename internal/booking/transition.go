package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cottagecooking/class-booking/internal/chat"
	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/reconcile"
	"github.com/cottagecooking/class-booking/internal/store"
)

// Transition moves a booking to a new lifecycle status and republishes
// availability.  Bookings are never deleted; cancellation is the only way
// to return seats to a session.  Illegal moves (out of completed or
// cancelled, skipping payment) fail with ErrInvalidTransition and write
// nothing.
func (s *Service) Transition(ctx context.Context, bookingID int64, to model.BookingStatus) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ledger []model.Booking
	if _, err := store.GetJSON(ctx, s.Store, store.KeyBookingLedger, &ledger); err != nil {
		return model.Booking{}, err
	}
	idx := -1
	for i, b := range ledger {
		if b.ID == bookingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Booking{}, model.ErrBookingNotFound
	}
	from := ledger[idx].Status
	if !from.CanTransition(to) {
		return model.Booking{}, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, from, to)
	}
	ledger[idx].Status = to
	if err := store.SetJSON(ctx, s.Store, store.KeyBookingLedger, ledger); err != nil {
		return model.Booking{}, err
	}

	var sessions []model.ClassSession
	if _, err := store.GetJSON(ctx, s.Store, store.KeyClassCatalogAdmin, &sessions); err != nil {
		return model.Booking{}, err
	}
	if err := s.Pub.Publish(ctx, reconcile.All(sessions, ledger)); err != nil {
		return model.Booking{}, err
	}

	b := ledger[idx]
	if to == model.BookingStatusCancelled {
		s.onCancelled(ctx, b)
	}
	logrus.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"from":       from,
		"to":         to,
	}).Info("booking status changed")
	return b, nil
}

// onCancelled tells the customer and the admin feed about a cancellation.
// Both writes are best effort; the status change already committed.
func (s *Service) onCancelled(ctx context.Context, b model.Booking) {
	if b.Email != "" {
		text := fmt.Sprintf("Your booking for %s on %s has been cancelled. %d seat(s) released.",
			b.ClassName, b.Date, b.Seats)
		if _, err := chat.Send(ctx, s.Store, b.Email, "admin", text); err != nil {
			logrus.WithError(err).Warn("booking: cancellation message failed")
		}
	}
	n := model.AdminNotification{
		Type:      "booking_cancelled",
		Message:   fmt.Sprintf("Booking %d (%s, %d seats) cancelled", b.ID, b.ClassName, b.Seats),
		Timestamp: s.now().UnixMilli(),
	}
	if err := chat.PushAdminNotification(ctx, s.Store, n); err != nil {
		logrus.WithError(err).Warn("booking: cancellation notification failed")
	}
}

// ManualEntry records a booking created by the admin outside the payment
// flow.  The same validation and capacity rules apply; the booking enters
// the ledger as paid with a manual payment marker.
func (s *Service) ManualEntry(ctx context.Context, req Request, amount float64) (Result, error) {
	req.Payment = &model.Payment{
		TransactionID: fmt.Sprintf("manual-%d", s.now().UnixMilli()),
		Status:        "COMPLETED",
		Amount:        amount,
		PayerEmail:    req.Email,
		Method:        "manual",
		PaidAt:        s.now().UTC().Format(time.RFC3339),
	}
	return s.Submit(ctx, req)
}
