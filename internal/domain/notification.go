package domain

import (
	"context"
	"time"
)

// Persisted notification types.
const (
	NotificationTaskAssigned   = "task-assigned"
	NotificationTaskCompleted  = "task-completed"
	NotificationProjectUpdated = "project-updated"
)

// Notification is the durable record of an event for a user. It is written
// regardless of whether a live push was possible; the notifications list is
// the authoritative view.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Data      string    `db:"data" json:"data,omitempty"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// ListByUser returns all of the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	ListUnread(ctx context.Context, userID string) ([]Notification, error)
	// MarkRead sets read=true on the user's notification. Idempotent;
	// ErrNotFound when the row does not exist or belongs to someone else.
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
	Count(ctx context.Context) (int, error)
}
