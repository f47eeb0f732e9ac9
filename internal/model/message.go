package model

// Message is one chat message between a customer and the site owner.
// Messages are stored under the userMessages key as a mapping from
// customer email to an ordered message sequence.  There is no state
// machine here beyond the boolean read flag.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"` // "user" or "admin"
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"` // RFC3339
	Read      bool   `json:"read"`
}

// AdminNotification is an admin-facing event record stored under the
// adminNotifications key, newest first, capped at the most recent 50.
type AdminNotification struct {
	ID        string `json:"id"`
	Type      string `json:"type"` // new_member, payment, security, logout, booking_cancelled
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix millis
	Read      bool   `json:"read"`
}

// AdminNotificationCap bounds the adminNotifications list; older entries
// fall off the end when a new one is pushed to the front.
const AdminNotificationCap = 50
