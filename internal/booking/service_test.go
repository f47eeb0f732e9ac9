package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
	appsync "github.com/cottagecooking/class-booking/internal/sync"
)

type capturedEvent struct {
	booking model.Booking
	session string
}

type fakeEvents struct {
	events []capturedEvent
}

func (f *fakeEvents) BookingConfirmed(_ context.Context, b model.Booking, sessionName string) {
	f.events = append(f.events, capturedEvent{booking: b, session: sessionName})
}

func fixedNow() time.Time {
	return time.Date(2025, time.November, 1, 12, 0, 0, 0, time.UTC)
}

// newTestService seeds a one-session catalog and returns a service wired to
// an in-memory store.
func newTestService(t *testing.T, maxSeats int) (*Service, *store.Memory, *fakeEvents) {
	t.Helper()
	mem := store.NewMemory()
	ctx := context.Background()

	sessions := []model.ClassSession{{
		ID:       100,
		Type:     "pasta",
		Name:     "Pasta Workshop",
		Date:     "2025-12-05",
		Time:     "6:00 PM",
		MaxSeats: maxSeats,
		Price:    85,
	}}
	pub := appsync.NewPublisher(mem)
	pub.Now = fixedNow
	require.NoError(t, pub.Publish(ctx, sessions))

	events := &fakeEvents{}
	svc := NewService(mem, pub, events)
	svc.Now = fixedNow
	return svc, mem, events
}

func paidRequest(seats int) Request {
	return Request{
		SessionID:    100,
		Date:         "2025-12-05",
		Seats:        seats,
		CustomerName: "Jamie Rivera",
		Email:        "jamie@example.com",
		Phone:        "555-0101",
		Payment: &model.Payment{
			TransactionID: "txn-1",
			Status:        "COMPLETED",
			Amount:        85,
			Method:        "paypal",
		},
	}
}

func ledgerOf(t *testing.T, mem *store.Memory) []model.Booking {
	t.Helper()
	var ledger []model.Booking
	_, err := store.GetJSON(context.Background(), mem, store.KeyBookingLedger, &ledger)
	require.NoError(t, err)
	return ledger
}

func TestSubmitCommitsPaidBooking(t *testing.T) {
	svc, mem, events := newTestService(t, 8)
	ctx := context.Background()

	res, err := svc.Submit(ctx, paidRequest(2))
	require.NoError(t, err)

	assert.Equal(t, model.BookingStatusPaid, res.Booking.Status)
	assert.Equal(t, int64(100), res.Booking.SessionID)
	assert.Equal(t, "Pasta Workshop", res.Booking.ClassName, "class name backfilled from session")
	assert.Equal(t, fixedNow().UnixMilli(), res.Booking.ID)
	assert.NotEmpty(t, res.TempPassword, "new email gets an auto-created account")

	ledger := ledgerOf(t, mem)
	require.Len(t, ledger, 1)

	// both views republished with the new count
	var admin []model.ClassSession
	_, err = store.GetJSON(ctx, mem, store.KeyClassCatalogAdmin, &admin)
	require.NoError(t, err)
	require.Len(t, admin, 1)
	assert.Equal(t, 2, admin[0].BookedSeats)

	var customer []model.CustomerClass
	_, err = store.GetJSON(ctx, mem, store.KeyClassCatalogCustomer, &customer)
	require.NoError(t, err)
	require.Len(t, customer, 1)
	assert.Equal(t, 6, customer[0].Seats)

	// confirmation event carried the session name
	require.Len(t, events.events, 1)
	assert.Equal(t, "Pasta Workshop", events.events[0].session)
}

func TestSubmitWithoutPaymentIsPending(t *testing.T) {
	svc, _, _ := newTestService(t, 8)

	req := paidRequest(1)
	req.Payment = nil
	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPendingPayment, res.Booking.Status)
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{
			name:    "missing name",
			mutate:  func(r *Request) { r.CustomerName = " " },
			wantErr: model.ErrMissingFields,
		},
		{
			name:    "missing phone",
			mutate:  func(r *Request) { r.Phone = "" },
			wantErr: model.ErrMissingFields,
		},
		{
			name:    "zero seats",
			mutate:  func(r *Request) { r.Seats = 0 },
			wantErr: model.ErrMissingFields,
		},
		{
			name:    "malformed email",
			mutate:  func(r *Request) { r.Email = "not-an-email" },
			wantErr: model.ErrInvalidEmail,
		},
		{
			name:    "email without tld",
			mutate:  func(r *Request) { r.Email = "user@host" },
			wantErr: model.ErrInvalidEmail,
		},
		{
			name:    "unknown session id",
			mutate:  func(r *Request) { r.SessionID = 999 },
			wantErr: model.ErrSessionNotFound,
		},
		{
			name:    "payment not completed",
			mutate:  func(r *Request) { r.Payment.Status = "DECLINED" },
			wantErr: model.ErrPaymentProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mem, _ := newTestService(t, 8)
			req := paidRequest(1)
			tt.mutate(&req)

			_, err := svc.Submit(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)

			// failed submits leave the ledger untouched
			assert.Empty(t, ledgerOf(t, mem))
		})
	}
}

func TestSubmitInsufficientSeats(t *testing.T) {
	svc, mem, _ := newTestService(t, 3)
	ctx := context.Background()

	_, err := svc.Submit(ctx, paidRequest(2))
	require.NoError(t, err)

	_, err = svc.Submit(ctx, paidRequest(2))
	require.ErrorIs(t, err, model.ErrInsufficientSeats)

	// the failed attempt wrote nothing and availability is unchanged
	require.Len(t, ledgerOf(t, mem), 1)
	var customer []model.CustomerClass
	_, jerr := store.GetJSON(ctx, mem, store.KeyClassCatalogCustomer, &customer)
	require.NoError(t, jerr)
	assert.Equal(t, 1, customer[0].Seats)

	// the last seat is still sellable
	_, err = svc.Submit(ctx, paidRequest(1))
	require.NoError(t, err)
}

func TestSubmitLegacyNameMatch(t *testing.T) {
	svc, _, _ := newTestService(t, 8)

	req := paidRequest(1)
	req.SessionID = 0
	req.ClassName = "pasta"
	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Booking.SessionID, "fuzzy match captures the foreign key")
}

func TestSubmitDoesNotReprovisionExistingAccount(t *testing.T) {
	svc, mem, _ := newTestService(t, 8)
	ctx := context.Background()

	users := []model.User{{Email: "jamie@example.com", AccountType: "member"}}
	require.NoError(t, store.SetJSON(ctx, mem, store.KeyUsers, users))

	res, err := svc.Submit(ctx, paidRequest(1))
	require.NoError(t, err)
	assert.Empty(t, res.TempPassword)

	var after []model.User
	_, err = store.GetJSON(ctx, mem, store.KeyUsers, &after)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "member", after[0].AccountType)
}

func TestTransitionLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t, 8)
	ctx := context.Background()

	req := paidRequest(2)
	req.Payment = nil
	res, err := svc.Submit(ctx, req)
	require.NoError(t, err)
	id := res.Booking.ID

	b, err := svc.Transition(ctx, id, model.BookingStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusPaid, b.Status)

	b, err = svc.Transition(ctx, id, model.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, b.Status)

	b, err = svc.Transition(ctx, id, model.BookingStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, b.Status)

	// completed is terminal
	_, err = svc.Transition(ctx, id, model.BookingStatusCancelled)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestTransitionCancelReleasesSeats(t *testing.T) {
	svc, mem, _ := newTestService(t, 4)
	ctx := context.Background()

	res, err := svc.Submit(ctx, paidRequest(3))
	require.NoError(t, err)

	_, err = svc.Transition(ctx, res.Booking.ID, model.BookingStatusCancelled)
	require.NoError(t, err)

	var customer []model.CustomerClass
	_, err = store.GetJSON(ctx, mem, store.KeyClassCatalogCustomer, &customer)
	require.NoError(t, err)
	assert.Equal(t, 4, customer[0].Seats, "cancellation returns seats immediately")

	// the booking stays in the ledger, marked cancelled
	ledger := ledgerOf(t, mem)
	require.Len(t, ledger, 1)
	assert.Equal(t, model.BookingStatusCancelled, ledger[0].Status)

	// cancelled is terminal
	_, err = svc.Transition(ctx, res.Booking.ID, model.BookingStatusPaid)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestTransitionUnknownBooking(t *testing.T) {
	svc, _, _ := newTestService(t, 4)
	_, err := svc.Transition(context.Background(), 12345, model.BookingStatusPaid)
	require.ErrorIs(t, err, model.ErrBookingNotFound)
}

func TestManualEntry(t *testing.T) {
	svc, _, _ := newTestService(t, 8)

	res, err := svc.ManualEntry(context.Background(), Request{
		SessionID:    100,
		Date:         "2025-12-05",
		Seats:        2,
		CustomerName: "Walk In",
		Email:        "walkin@example.com",
		Phone:        "555-0102",
	}, 170)
	require.NoError(t, err)

	require.NotNil(t, res.Booking.Payment)
	assert.Equal(t, model.BookingStatusPaid, res.Booking.Status)
	assert.Equal(t, "manual", res.Booking.Payment.Method)
	assert.Equal(t, 170.0, res.Booking.Payment.Amount)
}
