package domain

import (
	"context"
	"time"
)

// Project priority / status enums. Values match what the web client sends.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCancelled = "cancelled"
)

// Project member roles.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleMember  = "member"
)

type Project struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Description      string     `db:"description" json:"description,omitempty"`
	Image            string     `db:"image" json:"image,omitempty"`
	Priority         string     `db:"priority" json:"priority"`
	Status           string     `db:"status" json:"status"`
	Deadline         *time.Time `db:"deadline" json:"deadline,omitempty"`
	ProjectManagerID *string    `db:"project_manager_id" json:"projectManagerId,omitempty"`
	Tags             Tags       `db:"tags" json:"tags"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`

	// ProjectManager is populated on reads, never written directly.
	ProjectManager *UserRef `db:"-" json:"projectManager,omitempty"`
}

// ProjectRef is the compact form embedded in task and event payloads.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectMember joins a user to a project with a role. One row per
// (project, user).
type ProjectMember struct {
	ID        string    `db:"id" json:"id"`
	ProjectID string    `db:"project_id" json:"projectId"`
	UserID    string    `db:"user_id" json:"userId"`
	Role      string    `db:"role" json:"role"`
	JoinedAt  time.Time `db:"joined_at" json:"joinedAt"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleMember:
		return true
	}
	return false
}

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	ListForUser(ctx context.Context, userID string) ([]Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
	// DeadlinesForUser returns the caller's projects that carry a deadline,
	// ordered by deadline ascending.
	DeadlinesForUser(ctx context.Context, userID string) ([]Project, error)
	Count(ctx context.Context) (int, error)
}

type MemberRepository interface {
	Add(ctx context.Context, m *ProjectMember) error
	Remove(ctx context.Context, projectID, userID string) error
	Get(ctx context.Context, projectID, userID string) (*ProjectMember, error)
	ListByProject(ctx context.Context, projectID string) ([]ProjectMember, error)
	// MemberIDs returns the user ids of every member of the project.
	MemberIDs(ctx context.Context, projectID string) ([]string, error)
}
