// Package notify writes and reads user notification rows.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

// Log is the MySQL-backed notification feed.
type Log struct {
	DB *sql.DB
}

// New builds a notification log over an open connection pool.
func New(db *sql.DB) *Log {
	return &Log{DB: db}
}

// Add creates a notification for a user. Link is optional.
func (l *Log) Add(ctx context.Context, userID int64, message, link string) error {
	var nullLink sql.NullString
	if link != "" {
		nullLink = sql.NullString{String: link, Valid: true}
	}

	query := `
		INSERT INTO notifications
		(user_id, message, link, is_read, created_at)
		VALUES (?, ?, ?, 0, ?)`

	if _, err := l.DB.ExecContext(ctx, query, userID, message, nullLink, time.Now()); err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	return nil
}

// ListForUser returns a user's notifications, unread and newest first.
func (l *Log) ListForUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, message, link, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY is_read ASC, created_at DESC
		LIMIT 50`

	rows, err := l.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Persistence("list notifications", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, apperr.Persistence("scan notification", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterate notifications", err)
	}
	return notifications, nil
}

// MarkRead flags one of the user's notifications as read.
func (l *Log) MarkRead(ctx context.Context, userID, notificationID int64) error {
	result, err := l.DB.ExecContext(ctx,
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?",
		notificationID, userID)
	if err != nil {
		return apperr.Persistence("mark notification read", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Persistence("mark notification read", err)
	}
	if affected == 0 {
		return apperr.NotFound("notification", notificationID)
	}
	return nil
}
