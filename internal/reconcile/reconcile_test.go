package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottagecooking/class-booking/internal/model"
)

func session(id int64, name, typ, date string, max, booked int) model.ClassSession {
	return model.ClassSession{
		ID:          id,
		Type:        typ,
		Name:        name,
		Date:        date,
		MaxSeats:    max,
		BookedSeats: booked,
	}
}

func TestSameLocalDate(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "plain dates equal",
			a:    "2025-12-05",
			b:    "2025-12-05",
			want: true,
		},
		{
			name: "plain dates differ",
			a:    "2025-12-05",
			b:    "2025-12-06",
			want: false,
		},
		{
			name: "negative offset midnight stays on its calendar day",
			a:    "2025-12-05T00:00:00-05:00",
			b:    "2025-12-05",
			want: true,
		},
		{
			name: "positive offset midnight stays on its calendar day",
			a:    "2025-12-05T00:00:00+11:00",
			b:    "2025-12-05",
			want: true,
		},
		{
			name: "late evening stays on its calendar day",
			a:    "2025-12-05T23:30:00+02:00",
			b:    "2025-12-05",
			want: true,
		},
		{
			name: "bare timestamp without zone",
			a:    "2025-12-05T18:00:00",
			b:    "2025-12-05",
			want: true,
		},
		{
			name: "space-separated timestamp",
			a:    "2025-12-05 18:00:00",
			b:    "2025-12-05",
			want: true,
		},
		{
			name: "unparseable left side",
			a:    "next friday",
			b:    "2025-12-05",
			want: false,
		},
		{
			name: "empty strings never match",
			a:    "",
			b:    "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameLocalDate(tt.a, tt.b))
		})
	}
}

func TestMatchesSession(t *testing.T) {
	s := session(42, "Sourdough Bread Masterclass", "bread", "2025-12-05", 8, 0)

	tests := []struct {
		name    string
		booking model.Booking
		want    bool
	}{
		{
			name:    "session id match wins regardless of date",
			booking: model.Booking{SessionID: 42, Date: "1999-01-01", ClassName: "nonsense"},
			want:    true,
		},
		{
			name:    "session id mismatch never falls back to fuzzy",
			booking: model.Booking{SessionID: 7, Date: "2025-12-05", ClassName: "Sourdough Bread Masterclass"},
			want:    false,
		},
		{
			name:    "legacy exact name match",
			booking: model.Booking{Date: "2025-12-05", ClassName: "sourdough bread masterclass"},
			want:    true,
		},
		{
			name:    "legacy type match",
			booking: model.Booking{Date: "2025-12-05", ClassName: "Bread"},
			want:    true,
		},
		{
			name:    "legacy substring match",
			booking: model.Booking{Date: "2025-12-05", ClassName: "Sourdough"},
			want:    true,
		},
		{
			name:    "legacy match fails across dates",
			booking: model.Booking{Date: "2025-12-06", ClassName: "Sourdough Bread Masterclass"},
			want:    false,
		},
		{
			name:    "legacy empty class name never matches",
			booking: model.Booking{Date: "2025-12-05", ClassName: "  "},
			want:    false,
		},
		{
			name:    "legacy offset timestamp matches the calendar day",
			booking: model.Booking{Date: "2025-12-05T00:00:00-08:00", ClassName: "Sourdough"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesSession(tt.booking, s))
		})
	}
}

func TestBookedSeatsExcludesCancelled(t *testing.T) {
	s := session(1, "Pasta Workshop", "pasta", "2025-11-20", 10, 0)
	ledger := []model.Booking{
		{SessionID: 1, Seats: 2, Status: model.BookingStatusPaid},
		{SessionID: 1, Seats: 3, Status: model.BookingStatusCancelled},
		{SessionID: 1, Seats: 1, Status: model.BookingStatusPendingPayment},
		{SessionID: 1, Seats: 4, Status: model.BookingStatusCompleted},
		{SessionID: 2, Seats: 5, Status: model.BookingStatusPaid},
	}

	// pending, paid and completed count; cancelled and other sessions do not
	assert.Equal(t, 7, BookedSeats(s, ledger))
	assert.Equal(t, 3, Available(s, ledger))
}

func TestAvailableClampsAtZero(t *testing.T) {
	s := session(1, "Pasta Workshop", "pasta", "2025-11-20", 4, 0)
	ledger := []model.Booking{
		{SessionID: 1, Seats: 3, Status: model.BookingStatusPaid},
		{SessionID: 1, Seats: 3, Status: model.BookingStatusPaid},
	}

	assert.Equal(t, 6, BookedSeats(s, ledger))
	assert.Equal(t, 0, Available(s, ledger), "overbooked session reads as full, never negative")
}

func TestAllRecomputesFromScratch(t *testing.T) {
	// Seeded counts are ignored: the ledger is the only source of truth.
	sessions := []model.ClassSession{
		session(1, "Pasta Workshop", "pasta", "2025-11-20", 10, 99),
		session(2, "Knife Skills", "skills", "2025-11-21", 6, 99),
	}
	ledger := []model.Booking{
		{SessionID: 1, Seats: 2, Status: model.BookingStatusPaid},
		{SessionID: 2, Seats: 1, Status: model.BookingStatusConfirmed},
		{SessionID: 2, Seats: 1, Status: model.BookingStatusCancelled},
	}

	out := All(sessions, ledger)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].BookedSeats)
	assert.Equal(t, 1, out[1].BookedSeats)

	// input slice is untouched
	assert.Equal(t, 99, sessions[0].BookedSeats)
	assert.Equal(t, 99, sessions[1].BookedSeats)
}

func TestAllIsIdempotent(t *testing.T) {
	sessions := []model.ClassSession{
		session(1, "Pasta Workshop", "pasta", "2025-11-20", 10, 0),
	}
	ledger := []model.Booking{
		{SessionID: 1, Seats: 4, Status: model.BookingStatusPaid},
	}

	once := All(sessions, ledger)
	twice := All(once, ledger)
	assert.Equal(t, once, twice, "reconciling an unchanged ledger must not drift")
}

func TestDay(t *testing.T) {
	d, ok := Day("2025-12-05T00:00:00-05:00")
	require.True(t, ok)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, 5, d.Day())

	_, ok = Day("not a date")
	assert.False(t, ok)
}
