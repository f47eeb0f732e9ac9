// Package reconcile derives authoritative seat availability from the
// booking ledger.  Availability is always recomputed from scratch rather
// than patched incrementally, so repeated runs over an unchanged ledger
// yield identical numbers and the admin and customer views cannot drift
// apart.  Every function here is pure: same inputs, same answer.
package reconcile

import (
	"strings"
	"time"

	"github.com/cottagecooking/class-booking/internal/model"
)

// dateLayouts are the formats a ledger date may arrive in.  Legacy ledger
// entries carry anything from bare dates to full RFC3339 stamps.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// localDate extracts the calendar day from a date string in wall-clock
// terms.  The zone offset of a timestamp is kept as written and never
// normalized through UTC: "2025-12-05T00:00:00-05:00" is December 5th, not
// December 4th or 6th.  Returns false when the string parses under no
// known layout.
func localDate(s string) (year int, month time.Month, day int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return y, m, d, true
		}
	}
	return 0, 0, 0, false
}

// SameLocalDate reports whether two date strings fall on the same calendar
// day under date-only, wall-clock comparison.
func SameLocalDate(a, b string) bool {
	ay, am, ad, ok := localDate(a)
	if !ok {
		return false
	}
	by, bm, bd, ok := localDate(b)
	if !ok {
		return false
	}
	return ay == by && am == bm && ad == bd
}

// Day returns the calendar day of a date string as a midnight-UTC value
// suitable for ordering comparisons.  The UTC location is a neutral
// carrier for the wall-clock triple, not a zone conversion.
func Day(s string) (time.Time, bool) {
	y, m, d, ok := localDate(s)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// MatchesSession attributes a booking to a session.  A booking that
// captured a SessionID at creation matches by that foreign key alone.
// Legacy bookings without one fall back to the historical fuzzy rule: the
// dates must be the same calendar day and the booking's class identifier
// must match the session name or type case-insensitively, exactly or as a
// substring of the session name.
func MatchesSession(b model.Booking, s model.ClassSession) bool {
	if b.SessionID != 0 {
		return b.SessionID == s.ID
	}
	if !SameLocalDate(b.Date, s.Date) {
		return false
	}
	name := strings.TrimSpace(b.ClassName)
	if name == "" {
		return false
	}
	if strings.EqualFold(name, s.Name) || strings.EqualFold(name, s.Type) {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), strings.ToLower(name))
}

// BookedSeats sums the seats of all non-cancelled bookings attributed to
// the session.
func BookedSeats(s model.ClassSession, ledger []model.Booking) int {
	sum := 0
	for _, b := range ledger {
		if !b.Status.Active() {
			continue
		}
		if MatchesSession(b, s) {
			sum += b.Seats
		}
	}
	return sum
}

// Available returns the remaining capacity of a session given the ledger.
// The result is clamped at zero: a ledger that records more seats than
// MaxSeats (manual edits, capacity lowered after bookings) reads as full,
// never negative.
func Available(s model.ClassSession, ledger []model.Booking) int {
	avail := s.MaxSeats - BookedSeats(s, ledger)
	if avail < 0 {
		return 0
	}
	return avail
}

// All recomputes BookedSeats for every session from the ledger and returns
// the corrected list.  The input slice is not mutated.
func All(sessions []model.ClassSession, ledger []model.Booking) []model.ClassSession {
	out := make([]model.ClassSession, len(sessions))
	for i, s := range sessions {
		s.BookedSeats = BookedSeats(s, ledger)
		out[i] = s
	}
	return out
}
