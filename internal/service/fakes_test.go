package service_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/synergysphere/backend/internal/domain"
)

// In-memory repositories. None of them are concurrency-safe; the tests
// drive them from a single goroutine.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email already registered", domain.ErrDuplicate)
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

type fakeProjectRepo struct {
	projects map[string]*domain.Project
	members  *fakeMemberRepo
}

func newFakeProjectRepo(members *fakeMemberRepo) *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]*domain.Project{}, members: members}
}

func (r *fakeProjectRepo) Create(_ context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = domain.ProjectStatusActive
	}
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) ListForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	var out []domain.Project
	for id, p := range r.projects {
		if _, err := r.members.Get(ctx, id, userID); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, p *domain.Project) error {
	if _, ok := r.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.projects, id)
	// Mirror the FK cascade.
	for key, m := range r.members.rows {
		if m.ProjectID == id {
			delete(r.members.rows, key)
		}
	}
	return nil
}

func (r *fakeProjectRepo) DeadlinesForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	list, _ := r.ListForUser(ctx, userID)
	var out []domain.Project
	for _, p := range list {
		if p.Deadline != nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(*out[j].Deadline) })
	return out, nil
}

func (r *fakeProjectRepo) Count(context.Context) (int, error) {
	return len(r.projects), nil
}

type fakeMemberRepo struct {
	rows map[string]*domain.ProjectMember // keyed projectID+"/"+userID
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{rows: map[string]*domain.ProjectMember{}}
}

func memberKey(projectID, userID string) string { return projectID + "/" + userID }

func (r *fakeMemberRepo) Add(_ context.Context, m *domain.ProjectMember) error {
	key := memberKey(m.ProjectID, m.UserID)
	if _, ok := r.rows[key]; ok {
		return fmt.Errorf("%w: already a member", domain.ErrDuplicate)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	cp := *m
	r.rows[key] = &cp
	return nil
}

func (r *fakeMemberRepo) Remove(_ context.Context, projectID, userID string) error {
	key := memberKey(projectID, userID)
	if _, ok := r.rows[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, key)
	return nil
}

func (r *fakeMemberRepo) Get(_ context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	m, ok := r.rows[memberKey(projectID, userID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) ListByProject(_ context.Context, projectID string) ([]domain.ProjectMember, error) {
	var out []domain.ProjectMember
	for _, m := range r.rows {
		if m.ProjectID == projectID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) MemberIDs(_ context.Context, projectID string) ([]string, error) {
	var out []string
	for _, m := range r.rows {
		if m.ProjectID == projectID {
			out = append(out, m.UserID)
		}
	}
	sort.Strings(out)
	return out, nil
}

type fakeTaskRepo struct {
	tasks map[string]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*domain.Task{}}
}

func (r *fakeTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.TaskStatusTodo
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) ListForUser(context.Context, string) ([]domain.Task, error) {
	return nil, nil
}

func (r *fakeTaskRepo) ListByProject(_ context.Context, projectID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListByAssignee(_ context.Context, userID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) DeadlinesForUser(context.Context, string) ([]domain.Task, error) {
	return nil, nil
}

func (r *fakeTaskRepo) Count(context.Context) (int, error) {
	return len(r.tasks), nil
}

type fakeEventRepo struct {
	events map[string]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]*domain.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	if _, ok := r.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) ListForUser(_ context.Context, userID string) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range r.events {
		if e.CreatedBy == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ListRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Event, error) {
	list, _ := r.ListForUser(ctx, userID)
	var out []domain.Event
	for _, e := range list {
		if !e.Start.Before(start) && !e.Start.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	rows      []*domain.Notification
	createErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()
	cp := *n
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ListUnread(_ context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.rows {
		if n.UserID == userID && !n.Read {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) (*domain.Notification, error) {
	for _, n := range r.rows {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			cp := *n
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeNotificationRepo) Count(context.Context) (int, error) {
	return len(r.rows), nil
}

func (r *fakeNotificationRepo) forUser(userID string) []domain.Notification {
	out, _ := r.ListByUser(context.Background(), userID)
	return out
}
