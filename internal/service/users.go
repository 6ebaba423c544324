package service

import (
	"context"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

type UserService struct {
	users UserRepository
	tasks TaskRepository
}

func NewUserService(users UserRepository, tasks TaskRepository) *UserService {
	return &UserService{users: users, tasks: tasks}
}

// ListMembers returns every member with per-status counts of the tasks
// assigned to them.
func (s *UserService) ListMembers(ctx context.Context, actor models.Actor) ([]models.UserWithTaskCounts, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.GetUsers(ctx, models.RoleMember)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserWithTaskCounts, 0, len(users))
	for _, user := range users {
		entry := models.UserWithTaskCounts{User: user}
		for _, status := range models.Statuses {
			n, err := s.tasks.CountTasks(ctx, models.TaskFilter{AssignedTo: user.ID, Status: status})
			if err != nil {
				return nil, err
			}
			switch status {
			case models.StatusPending:
				entry.PendingTasks = n
			case models.StatusInProgress:
				entry.InProgressTasks = n
			case models.StatusCompleted:
				entry.CompletedTasks = n
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *UserService) DeleteUser(ctx context.Context, actor models.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return errors.ErrNotImplemented
}
