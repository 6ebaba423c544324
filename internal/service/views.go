package service

import (
	"context"
	stderrors "errors"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

// userCache resolves user summaries once per request.
type userCache struct {
	users UserRepository
	seen  map[string]*models.UserSummary
}

func newUserCache(users UserRepository) *userCache {
	return &userCache{users: users, seen: make(map[string]*models.UserSummary)}
}

// lookup returns nil for users that no longer exist.
func (c *userCache) lookup(ctx context.Context, id string) (*models.UserSummary, error) {
	if id == "" {
		return nil, nil
	}
	if summary, ok := c.seen[id]; ok {
		return summary, nil
	}

	user, err := c.users.GetUserByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			c.seen[id] = nil
			return nil, nil
		}
		return nil, err
	}
	summary := user.Summary()
	c.seen[id] = &summary
	return &summary, nil
}

func (c *userCache) view(ctx context.Context, task models.Task) (models.TaskView, error) {
	normalizeTask(&task)
	v := models.TaskView{
		Task:               task,
		AssignedTo:         make([]models.UserSummary, 0, len(task.AssignedTo)),
		CompletedTodoCount: task.CompletedTodoCount(),
	}

	for _, id := range task.AssignedTo {
		summary, err := c.lookup(ctx, id)
		if err != nil {
			return models.TaskView{}, err
		}
		if summary != nil {
			v.AssignedTo = append(v.AssignedTo, *summary)
		}
	}

	creator, err := c.lookup(ctx, task.CreatedBy)
	if err != nil {
		return models.TaskView{}, err
	}
	v.CreatedBy = creator
	return v, nil
}

func (c *userCache) views(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	out := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		v, err := c.view(ctx, task)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func normalizeTask(task *models.Task) {
	if task.AssignedTo == nil {
		task.AssignedTo = []string{}
	}
	if task.TodoChecklist == nil {
		task.TodoChecklist = []models.TodoItem{}
	}
	if task.Attachments == nil {
		task.Attachments = []string{}
	}
}
