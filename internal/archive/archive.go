// Package archive mirrors confirmed bookings into MySQL for reporting.
// The key-value store stays the source of truth; the archive is a
// write-behind copy fed by the booking.confirmed consumer and is safe to
// rebuild by replaying the ledger.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// DB wraps the reporting database.
type DB struct {
	db *sql.DB
}

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

// Close releases the connection pool.
func (a *DB) Close() error { return a.db.Close() }

// EnsureSchema creates the archive table when missing.
func (a *DB) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS booking_archive (
		booking_id    BIGINT PRIMARY KEY,
		session_id    BIGINT NOT NULL,
		class_name    VARCHAR(255) NOT NULL,
		class_date    VARCHAR(32) NOT NULL,
		customer_name VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		seats         INT NOT NULL,
		status        VARCHAR(32) NOT NULL,
		amount        DECIMAL(10,2) NOT NULL DEFAULT 0,
		confirmed_at  VARCHAR(40) NOT NULL
	)`
	_, err := a.db.ExecContext(ctx, q)
	return err
}

// Record is one archived booking row.
type Record struct {
	BookingID    int64
	SessionID    int64
	ClassName    string
	Date         string
	CustomerName string
	Email        string
	Seats        int
	Status       string
	Amount       float64
	ConfirmedAt  string
}

// Upsert inserts or refreshes a booking row.  Replays of the same event
// are harmless.
func (a *DB) Upsert(ctx context.Context, r Record) error {
	const q = `INSERT INTO booking_archive
		(booking_id, session_id, class_name, class_date, customer_name, email, seats, status, amount, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status), amount = VALUES(amount), confirmed_at = VALUES(confirmed_at)`
	_, err := a.db.ExecContext(ctx, q,
		r.BookingID, r.SessionID, r.ClassName, r.Date, r.CustomerName,
		r.Email, r.Seats, r.Status, r.Amount, r.ConfirmedAt)
	return err
}

// RevenueByClass sums archived amounts per class name, excluding
// cancelled bookings.
func (a *DB) RevenueByClass(ctx context.Context) (map[string]float64, error) {
	const q = `SELECT class_name, SUM(amount) FROM booking_archive
		WHERE status != 'cancelled' GROUP BY class_name`
	rows, err := a.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]float64)
	for rows.Next() {
		var name string
		var total float64
		if err := rows.Scan(&name, &total); err != nil {
			return nil, err
		}
		out[name] = total
	}
	return out, rows.Err()
}
