package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/cottagecooking/class-booking/internal/archive"
)

// StartBookingConsumer connects to RabbitMQ, declares the durable
// booking.confirmed queue and consumes events, mirroring each one into
// the reporting archive.  It runs a reconnect loop with capped backoff
// and returns only when ctx is cancelled.  A nil archive turns the
// consumer into a structured-log sink.
func StartBookingConsumer(ctx context.Context, db *archive.DB) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			logrus.WithError(err).Warnf("booking-consumer: dial failed; retrying in %s", backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(ctx, conn, db); err != nil {
			logrus.WithError(err).Warn("booking-consumer: consume loop ended; reconnecting")
			_ = conn.Close()
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, db *archive.DB) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logrus.WithError(err).Warn("booking-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(bookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(ctx, db, d.Body); err != nil {
				logrus.WithError(err).Warn("booking-consumer: handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(ctx context.Context, db *archive.DB, body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"booking_id": ev.BookingID,
		"class":      ev.ClassName,
		"date":       ev.Date,
		"seats":      ev.Seats,
		"amount":     ev.Amount,
	}).Info("booking confirmed")
	if db == nil {
		return nil
	}
	return db.Upsert(ctx, archive.Record{
		BookingID:    ev.BookingID,
		SessionID:    ev.SessionID,
		ClassName:    ev.ClassName,
		Date:         ev.Date,
		CustomerName: ev.CustomerName,
		Email:        ev.Email,
		Seats:        ev.Seats,
		Status:       ev.Status,
		Amount:       ev.Amount,
		ConfirmedAt:  ev.ConfirmedAt,
	})
}
