// Package booking implements the booking write path: validate a request
// against current availability, append to the ledger, reconcile and
// publish the refreshed views.
package booking

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	gosync "sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cottagecooking/class-booking/internal/chat"
	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/reconcile"
	"github.com/cottagecooking/class-booking/internal/store"
	"github.com/cottagecooking/class-booking/internal/sync"
)

// emailRe is the same permissive pattern the booking form always used:
// something@something.something, no whitespace.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EventPublisher receives a confirmation event after a booking commits.
// Failures are logged and otherwise ignored; eventing never blocks a sale.
type EventPublisher interface {
	BookingConfirmed(ctx context.Context, b model.Booking, sessionName string)
}

// Request carries one booking attempt.  SessionID is preferred; when it is
// zero the session is located by the legacy date + class-name match.
// Payment is the confirmation payload from the payment provider; a nil
// Payment produces a pending_payment booking (non-instant methods).
type Request struct {
	SessionID    int64
	ClassName    string
	Date         string
	Seats        int
	CustomerName string
	Email        string
	Phone        string
	Dietary      string
	Payment      *model.Payment
}

// Result is returned on a successful submit.  TempPassword is non-empty
// only when a guest account was auto-provisioned for the booking email.
type Result struct {
	Booking      model.Booking
	TempPassword string
}

// Service executes booking transactions against the shared store.
//
// The mutex makes the availability check and the ledger append one
// logical step per process.  Two processes sharing the store can still
// race each other past capacity; the store offers no cross-process
// locking, and that gap is documented rather than hidden.
type Service struct {
	Store  store.Store
	Pub    *sync.Publisher
	Events EventPublisher // optional
	Now    func() time.Time

	mu gosync.Mutex
}

// NewService builds a Service.  Store and Pub must be non-nil; Events may
// be nil when the broker is not configured.
func NewService(s store.Store, pub *sync.Publisher, events EventPublisher) *Service {
	if s == nil || pub == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{Store: s, Pub: pub, Events: events, Now: time.Now}
}

// Submit validates and commits a booking.  On any validation failure a
// typed error is returned and nothing is written: the ledger and both
// catalog views are left exactly as before the call.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validate(req); err != nil {
		return Result{}, err
	}

	var sessions []model.ClassSession
	if _, err := store.GetJSON(ctx, s.Store, store.KeyClassCatalogAdmin, &sessions); err != nil {
		return Result{}, err
	}
	session, ok := findSession(sessions, req)
	if !ok {
		return Result{}, model.ErrSessionNotFound
	}

	var ledger []model.Booking
	if _, err := store.GetJSON(ctx, s.Store, store.KeyBookingLedger, &ledger); err != nil {
		return Result{}, err
	}
	avail := reconcile.Available(session, ledger)
	if avail < req.Seats {
		return Result{}, fmt.Errorf("%w: %d requested, %d remaining", model.ErrInsufficientSeats, req.Seats, avail)
	}

	now := s.now()
	b := model.Booking{
		ID:           model.NewBookingID(now),
		SessionID:    session.ID,
		Date:         req.Date,
		ClassName:    strings.TrimSpace(req.ClassName),
		CustomerName: strings.TrimSpace(req.CustomerName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		Seats:        req.Seats,
		Dietary:      strings.TrimSpace(req.Dietary),
		Status:       model.BookingStatusPendingPayment,
		BookingTime:  now.UTC().Format(time.RFC3339),
		Payment:      req.Payment,
	}
	if b.ClassName == "" {
		b.ClassName = session.Name
	}
	if req.Payment != nil {
		b.Status = model.BookingStatusPaid
	}

	// Append-then-reconcile-then-publish.  All validation is done; from
	// here only store failures can interrupt the sequence.
	ledger = append(ledger, b)
	if err := store.SetJSON(ctx, s.Store, store.KeyBookingLedger, ledger); err != nil {
		return Result{}, err
	}
	if err := s.Pub.Publish(ctx, reconcile.All(sessions, ledger)); err != nil {
		return Result{}, err
	}

	res := Result{Booking: b}
	temp, err := s.provisionAccount(ctx, b)
	if err != nil {
		// The booking is committed; a failed account write only costs
		// the customer a convenience login.
		logrus.WithError(err).WithField("email", b.Email).Warn("booking: account auto-provision failed")
	}
	res.TempPassword = temp

	s.notifyAdmin(ctx, b, session)
	if s.Events != nil {
		s.Events.BookingConfirmed(ctx, b, session.Name)
	}
	logrus.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"session_id": session.ID,
		"seats":      b.Seats,
		"status":     b.Status,
	}).Info("booking committed")
	return res, nil
}

func validate(req Request) error {
	missing := make([]string, 0, 4)
	if req.SessionID == 0 && strings.TrimSpace(req.ClassName) == "" {
		missing = append(missing, "className")
	}
	if strings.TrimSpace(req.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(req.Phone) == "" {
		missing = append(missing, "phone")
	}
	if req.Seats < 1 {
		missing = append(missing, "seats")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", model.ErrMissingFields, strings.Join(missing, ", "))
	}
	if !emailRe.MatchString(strings.TrimSpace(req.Email)) {
		return model.ErrInvalidEmail
	}
	if req.Payment != nil && !strings.EqualFold(req.Payment.Status, "completed") {
		return fmt.Errorf("%w: status %q", model.ErrPaymentProvider, req.Payment.Status)
	}
	return nil
}

// findSession resolves the target session, by foreign key when the
// request carries one, otherwise by the legacy date + name match.
func findSession(sessions []model.ClassSession, req Request) (model.ClassSession, bool) {
	if req.SessionID != 0 {
		for _, s := range sessions {
			if s.ID == req.SessionID {
				return s, true
			}
		}
		return model.ClassSession{}, false
	}
	probe := model.Booking{ClassName: req.ClassName, Date: req.Date}
	for _, s := range sessions {
		if reconcile.MatchesSession(probe, s) {
			return s, true
		}
	}
	return model.ClassSession{}, false
}

// provisionAccount creates an auto-created account when no user exists
// for the booking email, returning the one-time temp password.
func (s *Service) provisionAccount(ctx context.Context, b model.Booking) (string, error) {
	var users []model.User
	if _, err := store.GetJSON(ctx, s.Store, store.KeyUsers, &users); err != nil {
		return "", err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, b.Email) {
			return "", nil
		}
	}
	first, last := splitName(b.CustomerName)
	temp, hash, err := tempCredentials()
	if err != nil {
		return "", err
	}
	users = append(users, model.User{
		FirstName:    first,
		LastName:     last,
		Email:        b.Email,
		Phone:        b.Phone,
		Dietary:      b.Dietary,
		Experience:   "beginner",
		PasswordHash: hash,
		AccountType:  "auto-created",
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	})
	if err := store.SetJSON(ctx, s.Store, store.KeyUsers, users); err != nil {
		return "", err
	}
	return temp, nil
}

func (s *Service) notifyAdmin(ctx context.Context, b model.Booking, session model.ClassSession) {
	n := model.AdminNotification{
		Type:      "payment",
		Message:   fmt.Sprintf("Payment received from %s for %s", b.CustomerName, session.Name),
		Timestamp: s.now().UnixMilli(),
	}
	if b.Status == model.BookingStatusPendingPayment {
		n.Type = "booking"
		n.Message = fmt.Sprintf("New booking from %s for %s (payment pending)", b.CustomerName, session.Name)
	}
	if err := chat.PushAdminNotification(ctx, s.Store, n); err != nil {
		logrus.WithError(err).Warn("booking: admin notification failed")
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
