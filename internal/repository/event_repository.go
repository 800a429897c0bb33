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

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) domain.EventRepository {
	return &eventRepository{db: db}
}

type eventRow struct {
	domain.Event
	ProjName     sql.NullString `db:"proj_name"`
	CreatorFirst sql.NullString `db:"creator_first_name"`
	CreatorLast  sql.NullString `db:"creator_last_name"`
	CreatorEmail sql.NullString `db:"creator_email"`
	CreatorImage sql.NullString `db:"creator_image"`
}

func (row *eventRow) toEvent() domain.Event {
	e := row.Event
	if e.ProjectID != nil && row.ProjName.Valid {
		e.Project = &domain.ProjectRef{ID: *e.ProjectID, Name: row.ProjName.String}
	}
	if row.CreatorEmail.Valid {
		e.Creator = &domain.UserRef{
			ID:        e.CreatedBy,
			FirstName: row.CreatorFirst.String,
			LastName:  row.CreatorLast.String,
			Email:     row.CreatorEmail.String,
			Image:     row.CreatorImage.String,
		}
	}
	return e
}

const eventSelect = `
	SELECT e.*,
		p.name AS proj_name,
		u.first_name AS creator_first_name, u.last_name AS creator_last_name,
		u.email AS creator_email, u.image AS creator_image
	FROM events e
	LEFT JOIN projects p ON p.id = e.project_id
	LEFT JOIN users u ON u.id = e.created_by`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, title, description, start_at, end_at, all_day,
			color, location, project_id, task_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID, e.Title, e.Description, e.Start, e.End, e.AllDay,
		e.Color, e.Location, e.ProjectID, e.TaskID, e.CreatedBy,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var row eventRow
	err := r.db.GetContext(ctx, &row, eventSelect+" WHERE e.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting event %s: %w", id, err)
	}
	e := row.toEvent()
	return &e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET title = $1, description = $2, start_at = $3, end_at = $4,
			all_day = $5, color = $6, location = $7, project_id = $8, task_id = $9,
			updated_at = $10
		WHERE id = $11`,
		e.Title, e.Description, e.Start, e.End, e.AllDay, e.Color,
		e.Location, e.ProjectID, e.TaskID, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event %s: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListForUser(ctx context.Context, userID string) ([]domain.Event, error) {
	return r.selectEvents(ctx, eventSelect+`
		LEFT JOIN project_members pm ON pm.project_id = e.project_id
		WHERE e.created_by = $1 OR pm.user_id = $1
		GROUP BY e.id, p.name, u.first_name, u.last_name, u.email, u.image
		ORDER BY e.start_at DESC`, userID)
}

func (r *eventRepository) ListRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Event, error) {
	return r.selectEvents(ctx, eventSelect+`
		LEFT JOIN project_members pm ON pm.project_id = e.project_id
		WHERE (e.created_by = $1 OR pm.user_id = $1)
			AND e.start_at >= $2 AND e.start_at <= $3
		GROUP BY e.id, p.name, u.first_name, u.last_name, u.email, u.image
		ORDER BY e.start_at`, userID, start, end)
}

func (r *eventRepository) selectEvents(ctx context.Context, query string, args ...interface{}) ([]domain.Event, error) {
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	events := make([]domain.Event, 0, len(rows))
	for i := range rows {
		events = append(events, rows[i].toEvent())
	}
	return events, nil
}
