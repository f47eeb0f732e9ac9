// Package chat holds the customer↔owner message threads and the
// admin-facing notification feed.
package chat

import (
	"context"

	"github.com/google/uuid"

	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
)

// PushAdminNotification prepends a notification to the adminNotifications
// feed, assigning an id when absent, and trims the feed to the most
// recent entries.
func PushAdminNotification(ctx context.Context, s store.Store, n model.AdminNotification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	var feed []model.AdminNotification
	if _, err := store.GetJSON(ctx, s, store.KeyAdminNotifications, &feed); err != nil {
		return err
	}
	feed = append([]model.AdminNotification{n}, feed...)
	if len(feed) > model.AdminNotificationCap {
		feed = feed[:model.AdminNotificationCap]
	}
	return store.SetJSON(ctx, s, store.KeyAdminNotifications, feed)
}

// Notifications returns the feed, newest first.
func Notifications(ctx context.Context, s store.Store) ([]model.AdminNotification, error) {
	var feed []model.AdminNotification
	if _, err := store.GetJSON(ctx, s, store.KeyAdminNotifications, &feed); err != nil {
		return nil, err
	}
	return feed, nil
}

// MarkNotificationsRead flags every notification as read.
func MarkNotificationsRead(ctx context.Context, s store.Store) error {
	feed, err := Notifications(ctx, s)
	if err != nil {
		return err
	}
	for i := range feed {
		feed[i].Read = true
	}
	return store.SetJSON(ctx, s, store.KeyAdminNotifications, feed)
}

// ClearNotifications empties the feed.
func ClearNotifications(ctx context.Context, s store.Store) error {
	return store.SetJSON(ctx, s, store.KeyAdminNotifications, []model.AdminNotification{})
}
