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

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) domain.TaskRepository {
	return &taskRepository{db: db}
}

type taskRow struct {
	domain.Task
	ProjName      sql.NullString `db:"proj_name"`
	AssigneeFirst sql.NullString `db:"assignee_first_name"`
	AssigneeLast  sql.NullString `db:"assignee_last_name"`
	AssigneeEmail sql.NullString `db:"assignee_email"`
	AssigneeImage sql.NullString `db:"assignee_image"`
}

func (row *taskRow) toTask() domain.Task {
	t := row.Task
	if row.ProjName.Valid {
		t.Project = &domain.ProjectRef{ID: t.ProjectID, Name: row.ProjName.String}
	}
	if t.AssigneeID != nil && row.AssigneeEmail.Valid {
		t.Assignee = &domain.UserRef{
			ID:        *t.AssigneeID,
			FirstName: row.AssigneeFirst.String,
			LastName:  row.AssigneeLast.String,
			Email:     row.AssigneeEmail.String,
			Image:     row.AssigneeImage.String,
		}
	}
	return t
}

const taskSelect = `
	SELECT t.*,
		p.name AS proj_name,
		u.first_name AS assignee_first_name, u.last_name AS assignee_last_name,
		u.email AS assignee_email, u.image AS assignee_image
	FROM tasks t
	LEFT JOIN projects p ON p.id = t.project_id
	LEFT JOIN users u ON u.id = t.assignee_id`

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, image, status, priority,
			deadline, project_id, assignee_id, tags, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.Title, t.Description, t.Image, t.Status, t.Priority,
		t.Deadline, t.ProjectID, t.AssigneeID, t.Tags, t.CreatedBy,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var row taskRow
	err := r.db.GetContext(ctx, &row, taskSelect+" WHERE t.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	t := row.toTask()
	return &t, nil
}

func (r *taskRepository) Update(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title = $1, description = $2, image = $3, status = $4,
			priority = $5, deadline = $6, assignee_id = $7, tags = $8, updated_at = $9
		WHERE id = $10`,
		t.Title, t.Description, t.Image, t.Status, t.Priority,
		t.Deadline, t.AssigneeID, t.Tags, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *taskRepository) ListForUser(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.selectTasks(ctx, taskSelect+`
		JOIN project_members pm ON pm.project_id = t.project_id
		WHERE pm.user_id = $1
		ORDER BY t.updated_at DESC`, userID)
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	return r.selectTasks(ctx, taskSelect+`
		WHERE t.project_id = $1
		ORDER BY t.updated_at DESC`, projectID)
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.selectTasks(ctx, taskSelect+`
		WHERE t.assignee_id = $1
		ORDER BY t.updated_at DESC`, userID)
}

func (r *taskRepository) DeadlinesForUser(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.selectTasks(ctx, taskSelect+`
		JOIN project_members pm ON pm.project_id = t.project_id
		WHERE pm.user_id = $1 AND t.deadline IS NOT NULL
		ORDER BY t.deadline`, userID)
}

func (r *taskRepository) selectTasks(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	tasks := make([]domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].toTask())
	}
	return tasks, nil
}

func (r *taskRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM tasks"); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return n, nil
}
