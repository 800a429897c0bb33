package domain

import (
	"context"
	"time"
)

// Calendar event colors accepted by the web client.
var EventColors = map[string]bool{
	"sky": true, "amber": true, "violet": true,
	"rose": true, "emerald": true, "orange": true,
}

// Event is a calendar entry, optionally tied to a project and/or task.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description,omitempty"`
	Start       time.Time `db:"start_at" json:"start"`
	End         time.Time `db:"end_at" json:"end"`
	AllDay      bool      `db:"all_day" json:"allDay"`
	Color       string    `db:"color" json:"color,omitempty"`
	Location    string    `db:"location" json:"location,omitempty"`
	ProjectID   *string   `db:"project_id" json:"projectId,omitempty"`
	TaskID      *string   `db:"task_id" json:"taskId,omitempty"`
	CreatedBy   string    `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Project *ProjectRef `db:"-" json:"project,omitempty"`
	Creator *UserRef    `db:"-" json:"creator,omitempty"`
}

type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
	// ListForUser returns events the user created plus events in projects
	// the user is a member of, most recent start first.
	ListForUser(ctx context.Context, userID string) ([]Event, error)
	// ListRange restricts ListForUser to events starting within [start, end].
	ListRange(ctx context.Context, userID string, start, end time.Time) ([]Event, error)
}
