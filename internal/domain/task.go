package domain

import (
	"context"
	"time"
)

// Task statuses.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

type Task struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	Image       string     `db:"image" json:"image,omitempty"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	Deadline    *time.Time `db:"deadline" json:"deadline,omitempty"`
	ProjectID   string     `db:"project_id" json:"projectId"`
	AssigneeID  *string    `db:"assignee_id" json:"assigneeId,omitempty"`
	Tags        Tags       `db:"tags" json:"tags"`
	CreatedBy   string     `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`

	// Populated on reads.
	Project  *ProjectRef `db:"-" json:"project,omitempty"`
	Assignee *UserRef    `db:"-" json:"assignee,omitempty"`
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Image       *string    `json:"image,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	Tags        *Tags      `json:"tags,omitempty"`
}

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
	// ListForUser returns tasks from every project the user is a member of,
	// newest update first.
	ListForUser(ctx context.Context, userID string) ([]Task, error)
	ListByProject(ctx context.Context, projectID string) ([]Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]Task, error)
	// DeadlinesForUser returns tasks with a deadline in the user's projects,
	// ordered by deadline ascending.
	DeadlinesForUser(ctx context.Context, userID string) ([]Task, error)
	Count(ctx context.Context) (int, error)
}
