// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking commits.  It carries
// enough for downstream consumers to archive or notify without re-reading
// the store.
type BookingConfirmedEvent struct {
	BookingID    int64   `json:"booking_id"`
	SessionID    int64   `json:"session_id"`
	ClassName    string  `json:"class_name"`
	Date         string  `json:"date"`
	CustomerName string  `json:"customer_name"`
	Email        string  `json:"email"`
	Seats        int     `json:"seats"`
	Status       string  `json:"status"`
	Amount       float64 `json:"amount"`
	ConfirmedAt  string  `json:"confirmed_at"`
}
