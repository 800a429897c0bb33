package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/synergysphere/backend/internal/domain"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) domain.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Data == "" {
		n.Data = "{}"
	}
	n.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, data, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Data, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

func (r *notificationRepository) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT * FROM notifications
		WHERE user_id = $1 AND read = FALSE
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing unread notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	// Marking an already-read row is a no-op with the same final state.
	_, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2",
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("marking notification %s read: %w", id, err)
	}

	var n domain.Notification
	err = r.db.GetContext(ctx, &n,
		"SELECT * FROM notifications WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reloading notification %s: %w", id, err)
	}
	return &n, nil
}

func (r *notificationRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM notifications"); err != nil {
		return 0, fmt.Errorf("counting notifications: %w", err)
	}
	return n, nil
}
