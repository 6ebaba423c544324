package service

import (
	"context"
	"taskmanager/internal/auth"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/logging"
	storage "taskmanager/repository/inmemory"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store *storage.Storage
	tasks *TaskService
	users *UserService
	auth  *AuthService

	admin models.User
	m1    models.User
	m2    models.User
}

func (f *fixture) adminActor() models.Actor { return models.Actor{ID: f.admin.ID, Role: models.RoleAdmin} }
func (f *fixture) m1Actor() models.Actor    { return models.Actor{ID: f.m1.ID, Role: models.RoleMember} }
func (f *fixture) m2Actor() models.Actor    { return models.Actor{ID: f.m2.ID, Role: models.RoleMember} }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := storage.NewStorage()
	logger := logging.Discard()

	f := &fixture{
		store: store,
		tasks: NewTaskService(store, store, logger),
		users: NewUserService(store, store),
		auth:  NewAuthService(store, auth.NewTokenManager("test-secret", time.Hour), "invite-123", logger),
		admin: models.User{ID: "admin", Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, CreatedAt: fixedNow.Add(-3 * time.Hour)},
		m1:    models.User{ID: "m1", Name: "Mia", Email: "mia@example.com", Role: models.RoleMember, CreatedAt: fixedNow.Add(-2 * time.Hour)},
		m2:    models.User{ID: "m2", Name: "Max", Email: "max@example.com", Role: models.RoleMember, CreatedAt: fixedNow.Add(-time.Hour)},
	}
	f.tasks.now = func() time.Time { return fixedNow }
	f.auth.now = func() time.Time { return fixedNow }

	for _, u := range []models.User{f.admin, f.m1, f.m2} {
		u := u
		require.NoError(t, store.CreateUser(ctx, &u))
	}
	return f
}

// seedFive stores five tasks: three Pending, one In Progress, one Completed.
// m1 is assigned to t1 and t3; t1 and t4 are overdue.
func (f *fixture) seedFive(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	tasks := []models.Task{
		{ID: "t1", Title: "one", Priority: models.PriorityLow, Status: models.StatusPending,
			AssignedTo: []string{"m1"}, DueDate: fixedNow.Add(-time.Hour), CreatedAt: fixedNow.Add(-5 * time.Hour)},
		{ID: "t2", Title: "two", Priority: models.PriorityMedium, Status: models.StatusPending,
			AssignedTo: []string{"m2"}, DueDate: fixedNow.Add(24 * time.Hour), CreatedAt: fixedNow.Add(-4 * time.Hour)},
		{ID: "t3", Title: "three", Priority: models.PriorityHigh, Status: models.StatusPending,
			AssignedTo: []string{"m1", "m2"}, DueDate: fixedNow.Add(24 * time.Hour), CreatedAt: fixedNow.Add(-3 * time.Hour)},
		{ID: "t4", Title: "four", Priority: models.PriorityMedium, Status: models.StatusInProgress,
			AssignedTo: []string{"m2"}, DueDate: fixedNow.Add(-2 * time.Hour), CreatedAt: fixedNow.Add(-2 * time.Hour)},
		{ID: "t5", Title: "five", Priority: models.PriorityHigh, Status: models.StatusCompleted,
			AssignedTo: []string{"m2"}, DueDate: fixedNow.Add(-3 * time.Hour), CreatedAt: fixedNow.Add(-time.Hour)},
	}
	for _, task := range tasks {
		task := task
		task.CreatedBy = f.admin.ID
		require.NoError(t, f.store.CreateTask(ctx, &task))
	}
}

func taskIDs(views []models.TaskView) []string {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}
