package service

import (
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

// scopeFor returns the filter selecting the tasks an actor may see.
func scopeFor(actor models.Actor) (models.TaskFilter, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return models.TaskFilter{}, nil
	case models.RoleMember:
		return models.TaskFilter{AssignedTo: actor.ID}, nil
	default:
		return models.TaskFilter{}, errors.ErrNotAuthorized
	}
}

// canAccess reports whether the actor may read the task or change its
// status and checklist.
func canAccess(actor models.Actor, task *models.Task) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleMember:
		return task.IsAssignedTo(actor.ID)
	default:
		return false
	}
}

func requireAdmin(actor models.Actor) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleMember:
		return errors.ErrAdminOnly
	default:
		return errors.ErrNotAuthorized
	}
}
