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

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requestor_id, created_at) VALUES (?, ?, ?)`
	created := request.Created
	if created.IsZero() {
		created = time.Now()
	}
	result, err := db.ExecContext(ctx, query, request.Description, request.RequestorID, created)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	request.Created = created
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_at FROM requests WHERE id = ?`
	var r models.ItemRequest
	err := db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Description, &r.RequestorID, &r.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(domain.ReasonMissing, "request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query request: %w", err)
	}
	return &r, nil
}

// ListRequestsByRequestor возвращает запросы пользователя, новые сверху.
func (db *DB) ListRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_at FROM requests
              WHERE requestor_id = ? ORDER BY created_at DESC`
	return db.queryRequests(ctx, query, requestorID)
}

// ListRequests возвращает страницу чужих запросов для ленты.
func (db *DB) ListRequests(ctx context.Context, excludeUserID int64, page domain.Page) ([]*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_at FROM requests
              WHERE requestor_id != ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, excludeUserID, page.Size, page.Offset())
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.ItemRequest
	for rows.Next() {
		var r models.ItemRequest
		if err := rows.Scan(&r.ID, &r.Description, &r.RequestorID, &r.Created); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, &r)
	}
	return requests, rows.Err()
}
