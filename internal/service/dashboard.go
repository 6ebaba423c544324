package service

import (
	"context"
	"taskmanager/internal/domain/models"
)

// Dashboard aggregates statistics over every task when global is set, or
// over the tasks assigned to the actor otherwise. Only admins may request
// the global variant.
func (s *TaskService) Dashboard(ctx context.Context, actor models.Actor, global bool) (*models.Dashboard, error) {
	scope := models.TaskFilter{AssignedTo: actor.ID}
	if global {
		if err := requireAdmin(actor); err != nil {
			return nil, err
		}
		scope = models.TaskFilter{}
	}

	stats, err := s.statistics(ctx, scope)
	if err != nil {
		return nil, err
	}
	priorities, err := s.priorityLevels(ctx, scope)
	if err != nil {
		return nil, err
	}

	recentFilter := scope
	recentFilter.Limit = recentTasksLimit
	recent, err := s.tasks.GetTasks(ctx, recentFilter)
	if err != nil {
		return nil, err
	}
	recentViews, err := newUserCache(s.users).views(ctx, recent)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		Statistics: stats,
		Charts: models.DashboardCharts{
			TaskDistribution: models.TaskDistribution{
				Pending:    stats.PendingTasks,
				InProgress: stats.InProgressTasks,
				Completed:  stats.CompletedTasks,
				All:        stats.TotalTasks,
			},
			TaskPriorityLevels: priorities,
		},
		RecentTasks: recentViews,
	}, nil
}

func (s *TaskService) statistics(ctx context.Context, scope models.TaskFilter) (models.DashboardStatistics, error) {
	var stats models.DashboardStatistics
	var err error

	if stats.TotalTasks, err = s.tasks.CountTasks(ctx, scope); err != nil {
		return stats, err
	}
	counts, err := s.countByStatus(ctx, scope)
	if err != nil {
		return stats, err
	}
	stats.PendingTasks = counts[models.StatusPending]
	stats.InProgressTasks = counts[models.StatusInProgress]
	stats.CompletedTasks = counts[models.StatusCompleted]

	overdue := scope
	overdue.NotStatus = models.StatusCompleted
	overdue.DueBefore = s.now()
	if stats.OverdueTasks, err = s.tasks.CountTasks(ctx, overdue); err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *TaskService) priorityLevels(ctx context.Context, scope models.TaskFilter) (models.TaskPriorityLevels, error) {
	counts := make(map[models.Priority]int, len(models.Priorities))
	for _, priority := range models.Priorities {
		filter := scope
		filter.Priority = priority
		n, err := s.tasks.CountTasks(ctx, filter)
		if err != nil {
			return models.TaskPriorityLevels{}, err
		}
		counts[priority] = n
	}
	return models.TaskPriorityLevels{
		Low:    counts[models.PriorityLow],
		Medium: counts[models.PriorityMedium],
		High:   counts[models.PriorityHigh],
	}, nil
}
