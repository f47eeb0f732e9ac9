package model

// ClassSession represents one offering of a cooking class on a single
// calendar date.  This is the admin-facing shape persisted under the
// classCatalogAdmin store key.  MaxSeats is fixed at creation; BookedSeats
// is always derived from the booking ledger and never edited directly.
//
// Fields:
//  ID          – unique, immutable identifier.
//  Type        – category key (e.g. "fresh-pasta", "holiday-desserts").
//  Name        – display name shown on the calendar.
//  Date        – calendar date as "YYYY-MM-DD", interpreted as a local
//                wall-clock date, never shifted through UTC.
//  Time        – display string such as "6:00-9:00 PM"; not machine-parsed.
//  MaxSeats    – fixed seat capacity, >= 1.
//  BookedSeats – derived sum of active booking seats for this session.
//  Price       – per-seat price in dollars.
//  Description – menu text shown to customers.
type ClassSession struct {
	ID          int64   `json:"id"`          // unique, immutable
	Type        string  `json:"type"`        // category key
	Name        string  `json:"name"`        // display name
	Date        string  `json:"date"`        // YYYY-MM-DD, local wall-clock
	Time        string  `json:"time"`        // display string
	MaxSeats    int     `json:"maxSeats"`    // capacity, fixed at creation
	BookedSeats int     `json:"bookedSeats"` // derived, recomputed from ledger
	Price       float64 `json:"price"`       // per-seat price
	Description string  `json:"description"` // menu text
}

// CustomerClass is the flattened customer-facing materialization of a
// session, persisted under the classCatalogCustomer key.  Seats is the
// remaining capacity (MaxSeats - BookedSeats), never the raw capacity.
// Only forward-dated sessions are published in this form.
type CustomerClass struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Class       string `json:"class"` // display class name
	Seats       int    `json:"seats"` // remaining capacity
	Time        string `json:"time"`
	Description string `json:"description"`
}
