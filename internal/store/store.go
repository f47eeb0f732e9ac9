// Package store models the site's single shared key-value store: a flat
// set of named keys whose values are JSON blobs with last-writer-wins
// semantics per key.  Every component reads and rewrites whole keys; there
// is no transaction log and no ownership partitioning.  Observers register
// per-key callbacks to learn that a key changed and then re-read the key
// themselves rather than trusting any event payload.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Logical keys of the persisted state layout.  All values are
// JSON-serialized.
const (
	KeyClassCatalogAdmin    = "classCatalogAdmin"    // []model.ClassSession
	KeyClassCatalogCustomer = "classCatalogCustomer" // []model.CustomerClass
	KeyBookingLedger        = "bookingLedger"        // []model.Booking
	KeyUsers                = "users"                // []model.User
	KeyCurrentSession       = "currentSession"       // model.Session
	KeyUserMessages         = "userMessages"         // map[email][]model.Message
	KeyAdminNotifications   = "adminNotifications"   // []model.AdminNotification
	KeyLastUpdateMarker     = "lastUpdateMarker"     // unix-millis timestamp
)

// Store is the injectable abstraction over the shared mutable store.
// Implementations must deliver Subscribe callbacks after the new value is
// readable, so a subscriber that re-reads the key observes the write that
// triggered the signal.
type Store interface {
	// Get returns the raw value for key.  The second result is false
	// when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the value for key (last writer wins).
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key entirely.
	Delete(ctx context.Context, key string) error
	// Subscribe registers fn to run whenever key changes and returns a
	// function that cancels the subscription.
	Subscribe(key string, fn func(key string)) (cancel func())
}

// GetJSON reads key and unmarshals it into out.  It returns false without
// touching out when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and writes it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
