package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingColumns = `b.id, b.start_date, b.end_date, b.item_id, i.name, b.booker_id, b.status, b.created_at, b.updated_at`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_date, end_date, item_id, booker_id, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.Start, booking.End, booking.ItemID, booking.BookerID, booking.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b JOIN items i ON i.id = b.item_id WHERE b.id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(domain.ReasonMissing, "booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.NotFound(domain.ReasonMissing, "booking not found")
	}
	return nil
}

// ListBookingsByBooker возвращает страницу бронирований пользователя,
// новые сверху.
func (db *DB) ListBookingsByBooker(ctx context.Context, bookerID int64, page domain.Page) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b JOIN items i ON i.id = b.item_id
              WHERE b.booker_id = ? ORDER BY b.id DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, bookerID, page.Size, page.Offset())
}

// ListBookingsByOwner возвращает страницу бронирований всех вещей владельца.
func (db *DB) ListBookingsByOwner(ctx context.Context, ownerID int64, page domain.Page) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b JOIN items i ON i.id = b.item_id
              WHERE i.owner_id = ? ORDER BY b.id DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, ownerID, page.Size, page.Offset())
}

// ListAllBookings отдаёт все бронирования, используется при полной
// пересинхронизации листа.
func (db *DB) ListAllBookings(ctx context.Context, page domain.Page) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b JOIN items i ON i.id = b.item_id
              ORDER BY b.id DESC LIMIT ? OFFSET ?`
	return db.queryBookings(ctx, query, page.Size, page.Offset())
}

func (db *DB) ListAllBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b JOIN items i ON i.id = b.item_id
              WHERE b.booker_id = ? ORDER BY b.id DESC`
	return db.queryBookings(ctx, query, bookerID)
}

// LastBookingForItem возвращает последнее завершившееся бронирование вещи.
// Виден только владельцу, поэтому фильтруем по owner_id.
func (db *DB) LastBookingForItem(ctx context.Context, itemID, ownerID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b JOIN items i ON i.id = b.item_id
              WHERE b.item_id = ? AND i.owner_id = ? AND b.end_date < ?
              ORDER BY b.end_date DESC LIMIT 1`
	return db.queryOptionalBooking(ctx, query, itemID, ownerID, now)
}

// NextBookingForItem возвращает ближайшее будущее бронирование вещи.
func (db *DB) NextBookingForItem(ctx context.Context, itemID, ownerID int64, now time.Time) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b JOIN items i ON i.id = b.item_id
              WHERE b.item_id = ? AND i.owner_id = ? AND b.start_date > ?
              ORDER BY b.start_date ASC LIMIT 1`
	return db.queryOptionalBooking(ctx, query, itemID, ownerID, now)
}

func (db *DB) queryOptionalBooking(ctx context.Context, query string, args ...interface{}) (*models.Booking, error) {
	booking, err := scanBooking(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return booking, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.ItemID, &b.ItemName,
		&b.BookerID, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
