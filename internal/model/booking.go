package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusPaid           BookingStatus = "paid"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusCompleted      BookingStatus = "completed"
)

// CanTransition reports whether a booking may move from its current status
// to the target status.  The lifecycle is
// pending_payment -> paid -> completed, with cancelled reachable from
// pending_payment or paid.  Terminal states (completed, cancelled) admit
// no further transitions.  "confirmed" is treated as an alias stage after
// paid that the admin may set before completion.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	if s == to {
		return false
	}
	switch s {
	case BookingStatusPendingPayment:
		return to == BookingStatusPaid || to == BookingStatusCancelled
	case BookingStatusPaid:
		return to == BookingStatusConfirmed || to == BookingStatusCompleted || to == BookingStatusCancelled
	case BookingStatusConfirmed:
		return to == BookingStatusCompleted || to == BookingStatusCancelled
	default:
		// completed and cancelled are terminal
		return false
	}
}

// Active reports whether the booking consumes seats.  Cancelled bookings
// never reduce availability.
func (s BookingStatus) Active() bool { return s != BookingStatusCancelled }

// Payment is the optional confirmation sub-record attached to a booking
// once a payment provider reports success.  The shape mirrors what the
// provider SDK returns: an opaque transaction id, the captured amount,
// the payer identity and a timestamp.
type Payment struct {
	TransactionID string  `json:"transactionId"`
	Status        string  `json:"status"` // provider-reported, e.g. "COMPLETED"
	Amount        float64 `json:"amount"`
	PayerEmail    string  `json:"payerEmail"`
	Method        string  `json:"method"` // "paypal", "applepay", "manual"
	PaidAt        string  `json:"paidAt"` // RFC3339
}

// Booking is one reservation transaction in the append-only ledger stored
// under the bookingLedger key.  Bookings are never physically removed;
// cancellation is a status mutation.
//
// SessionID is the stable foreign key to the session the booking was made
// against, captured at booking time.  ClassName is kept alongside it for
// display and as a compatibility shim: ledgers migrated from the legacy
// site carry only a free-text class identifier and are matched by fuzzy
// name/date comparison when SessionID is zero.
type Booking struct {
	ID           int64         `json:"id"`   // creation timestamp (unix millis)
	SessionID    int64         `json:"sessionId,omitempty"`
	Date         string        `json:"date"` // target class date
	ClassName    string        `json:"className"`
	CustomerName string        `json:"customerName"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Seats        int           `json:"seats"` // >= 1
	Dietary      string        `json:"dietary,omitempty"`
	Status       BookingStatus `json:"status"`
	BookingTime  string        `json:"bookingTime"` // RFC3339 creation time
	Payment      *Payment      `json:"payment,omitempty"`
}

// NewBookingID returns a ledger id for a booking created now.  Ids are
// unix-millisecond creation timestamps, matching the historical ledger
// format.
func NewBookingID(now time.Time) int64 { return now.UnixMilli() }
