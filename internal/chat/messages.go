package chat

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
)

// Threads is the persisted shape of the userMessages key: one ordered
// message sequence per customer email.
type Threads map[string][]model.Message

// loadThreads reads the full message map; absent key yields an empty map.
func loadThreads(ctx context.Context, s store.Store) (Threads, error) {
	threads := Threads{}
	if _, err := store.GetJSON(ctx, s, store.KeyUserMessages, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// Send appends a message to the thread for email.  Sender is "user" or
// "admin".  A user message also raises an admin notification so the feed
// surfaces unanswered chats.
func Send(ctx context.Context, s store.Store, email, sender, text string) (model.Message, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	msg := model.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      strings.TrimSpace(text),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	threads, err := loadThreads(ctx, s)
	if err != nil {
		return model.Message{}, err
	}
	threads[email] = append(threads[email], msg)
	if err := store.SetJSON(ctx, s, store.KeyUserMessages, threads); err != nil {
		return model.Message{}, err
	}
	if sender == "user" {
		_ = PushAdminNotification(ctx, s, model.AdminNotification{
			Type:      "message",
			Message:   "New message from " + email,
			Timestamp: time.Now().UnixMilli(),
		})
	}
	return msg, nil
}

// Thread returns the messages for email in send order.
func Thread(ctx context.Context, s store.Store, email string) ([]model.Message, error) {
	threads, err := loadThreads(ctx, s)
	if err != nil {
		return nil, err
	}
	return threads[strings.ToLower(strings.TrimSpace(email))], nil
}

// MarkRead flags all messages from the given sender in email's thread as
// read.  A customer viewing their thread marks admin messages; the owner
// viewing a conversation marks user messages.
func MarkRead(ctx context.Context, s store.Store, email, sender string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	threads, err := loadThreads(ctx, s)
	if err != nil {
		return err
	}
	changed := false
	msgs := threads[email]
	for i := range msgs {
		if msgs[i].Sender == sender && !msgs[i].Read {
			msgs[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	threads[email] = msgs
	return store.SetJSON(ctx, s, store.KeyUserMessages, threads)
}

// UnreadCount counts unread messages from sender in email's thread.
func UnreadCount(ctx context.Context, s store.Store, email, sender string) (int, error) {
	msgs, err := Thread(ctx, s, email)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range msgs {
		if m.Sender == sender && !m.Read {
			n++
		}
	}
	return n, nil
}

// Conversation summarizes one customer thread for the admin inbox.
type Conversation struct {
	Email        string `json:"email"`
	LastActivity string `json:"lastActivity"`
	LastText     string `json:"lastText"`
	Unread       int    `json:"unread"` // unread user messages
}

// Conversations lists every thread, most recently active first.
func Conversations(ctx context.Context, s store.Store) ([]Conversation, error) {
	threads, err := loadThreads(ctx, s)
	if err != nil {
		return nil, err
	}
	out := make([]Conversation, 0, len(threads))
	for email, msgs := range threads {
		if len(msgs) == 0 {
			continue
		}
		c := Conversation{Email: email}
		last := msgs[len(msgs)-1]
		c.LastActivity = last.Timestamp
		c.LastText = last.Text
		for _, m := range msgs {
			if m.Sender == "user" && !m.Read {
				c.Unread++
			}
		}
		out = append(out, c)
	}
	// newest activity first; RFC3339 sorts lexically
	sort.Slice(out, func(i, j int) bool { return out[i].LastActivity > out[j].LastActivity })
	return out, nil
}
