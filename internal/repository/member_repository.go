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

type memberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) domain.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Add(ctx context.Context, m *domain.ProjectMember) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Role == "" {
		m.Role = domain.RoleMember
	}
	m.JoinedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_members (id, project_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ProjectID, m.UserID, m.Role, m.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("member %s of project %s: %w", m.UserID, m.ProjectID, domain.ErrDuplicate)
		}
		return fmt.Errorf("adding project member: %w", err)
	}
	return nil
}

func (r *memberRepository) Remove(ctx context.Context, projectID, userID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM project_members WHERE project_id = $1 AND user_id = $2",
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("removing project member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *memberRepository) Get(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	var m domain.ProjectMember
	err := r.db.GetContext(ctx, &m,
		"SELECT * FROM project_members WHERE project_id = $1 AND user_id = $2",
		projectID, userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting project member: %w", err)
	}
	return &m, nil
}

func (r *memberRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectMember, error) {
	var members []domain.ProjectMember
	err := r.db.SelectContext(ctx, &members,
		"SELECT * FROM project_members WHERE project_id = $1 ORDER BY joined_at",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing members of project %s: %w", projectID, err)
	}
	return members, nil
}

func (r *memberRepository) MemberIDs(ctx context.Context, projectID string) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		"SELECT user_id FROM project_members WHERE project_id = $1",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("resolving members of project %s: %w", projectID, err)
	}
	return ids, nil
}
