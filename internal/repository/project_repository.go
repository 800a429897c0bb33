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

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) domain.ProjectRepository {
	return &projectRepository{db: db}
}

// projectRow carries a project plus its (nullable) manager columns from a
// left join against users.
type projectRow struct {
	domain.Project
	MgrID    sql.NullString `db:"mgr_id"`
	MgrFirst sql.NullString `db:"mgr_first_name"`
	MgrLast  sql.NullString `db:"mgr_last_name"`
	MgrEmail sql.NullString `db:"mgr_email"`
	MgrImage sql.NullString `db:"mgr_image"`
}

func (row *projectRow) toProject() domain.Project {
	p := row.Project
	if row.MgrID.Valid {
		p.ProjectManager = &domain.UserRef{
			ID:        row.MgrID.String,
			FirstName: row.MgrFirst.String,
			LastName:  row.MgrLast.String,
			Email:     row.MgrEmail.String,
			Image:     row.MgrImage.String,
		}
	}
	return p
}

const projectSelect = `
	SELECT p.*,
		u.id AS mgr_id, u.first_name AS mgr_first_name, u.last_name AS mgr_last_name,
		u.email AS mgr_email, u.image AS mgr_image
	FROM projects p
	LEFT JOIN users u ON u.id = p.project_manager_id`

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Priority == "" {
		p.Priority = domain.PriorityMedium
	}
	if p.Status == "" {
		p.Status = domain.ProjectStatusActive
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, image, priority, status,
			deadline, project_manager_id, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Name, p.Description, p.Image, p.Priority, p.Status,
		p.Deadline, p.ProjectManagerID, p.Tags, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var row projectRow
	err := r.db.GetContext(ctx, &row, projectSelect+" WHERE p.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	p := row.toProject()
	return &p, nil
}

func (r *projectRepository) ListForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	var rows []projectRow
	err := r.db.SelectContext(ctx, &rows, projectSelect+`
		JOIN project_members pm ON pm.project_id = p.id
		WHERE pm.user_id = $1
		ORDER BY p.updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects for user %s: %w", userID, err)
	}
	projects := make([]domain.Project, 0, len(rows))
	for i := range rows {
		projects = append(projects, rows[i].toProject())
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET name = $1, description = $2, image = $3,
			priority = $4, status = $5, deadline = $6,
			project_manager_id = $7, tags = $8, updated_at = $9
		WHERE id = $10`,
		p.Name, p.Description, p.Image, p.Priority, p.Status,
		p.Deadline, p.ProjectManagerID, p.Tags, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *projectRepository) DeadlinesForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	var rows []projectRow
	err := r.db.SelectContext(ctx, &rows, projectSelect+`
		JOIN project_members pm ON pm.project_id = p.id
		WHERE pm.user_id = $1 AND p.deadline IS NOT NULL
		ORDER BY p.deadline`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing project deadlines for user %s: %w", userID, err)
	}
	projects := make([]domain.Project, 0, len(rows))
	for i := range rows {
		projects = append(projects, rows[i].toProject())
	}
	return projects, nil
}

func (r *projectRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM projects"); err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	return n, nil
}
