// Package sync keeps the two redundant catalog materializations — the
// admin view and the customer view — consistent.  Both are rewritten
// wholesale from a reconciled session list on every publish; the customer
// view is never edited in place.
package sync

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/reconcile"
	"github.com/cottagecooking/class-booking/internal/store"
)

// Publisher writes the dual views of the class catalog and signals
// observers.  Now is injectable for tests and defaults to time.Now.
type Publisher struct {
	Store store.Store
	Now   func() time.Time
}

// NewPublisher returns a Publisher bound to the given store.
func NewPublisher(s store.Store) *Publisher {
	if s == nil {
		panic("nil store passed to sync.NewPublisher")
	}
	return &Publisher{Store: s, Now: time.Now}
}

// Publish writes the admin-format session list, derives and writes the
// customer-format list (forward-dated sessions only, seats = remaining
// capacity), and bumps the lastUpdateMarker so observers in this and
// other processes re-pull the affected keys.
//
// After Publish returns, any reader that re-reads the store sees a
// mutually consistent pair of views: for every published session,
// customer.seats + admin.bookedSeats == admin.maxSeats.  A concurrently
// reading process may still observe the previous pair until its own
// refresh fires; consistency across processes is eventual, not atomic.
func (p *Publisher) Publish(ctx context.Context, sessions []model.ClassSession) error {
	if err := store.SetJSON(ctx, p.Store, store.KeyClassCatalogAdmin, sessions); err != nil {
		return err
	}
	customer := p.CustomerView(sessions)
	if err := store.SetJSON(ctx, p.Store, store.KeyClassCatalogCustomer, customer); err != nil {
		return err
	}
	marker := strconv.FormatInt(p.now().UnixMilli(), 10)
	if err := p.Store.Set(ctx, store.KeyLastUpdateMarker, []byte(marker)); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"admin_classes":    len(sessions),
		"customer_classes": len(customer),
	}).Debug("sync: catalog views published")
	return nil
}

// CustomerView derives the customer-facing records from an admin session
// list.  Sessions dated before today (local calendar terms) are dropped;
// Seats is the remaining capacity, clamped at zero.
func (p *Publisher) CustomerView(sessions []model.ClassSession) []model.CustomerClass {
	today := p.now()
	ty, tm, td := today.Date()
	cutoff := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	out := make([]model.CustomerClass, 0, len(sessions))
	for _, s := range sessions {
		day, ok := reconcile.Day(s.Date)
		if !ok || day.Before(cutoff) {
			continue
		}
		seats := s.MaxSeats - s.BookedSeats
		if seats < 0 {
			seats = 0
		}
		out = append(out, model.CustomerClass{
			ID:          s.ID,
			Date:        s.Date,
			Class:       s.Name,
			Seats:       seats,
			Time:        s.Time,
			Description: s.Description,
		})
	}
	return out
}

// Watch invokes fn whenever a publish lands, from this process or another
// one sharing the store.  The returned function cancels the watch.
// Callers re-read the keys they care about; no payload is delivered.
func (p *Publisher) Watch(fn func()) func() {
	return p.Store.Subscribe(store.KeyLastUpdateMarker, func(string) { fn() })
}

func (p *Publisher) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
