package service

import (
	"context"
	stderrors "errors"
	"strings"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const recentTasksLimit = 10

type TaskService struct {
	tasks  TaskRepository
	users  UserRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewTaskService(tasks TaskRepository, users UserRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		users:  users,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListTasks returns the tasks visible to the actor, optionally narrowed by
// status. The summary always counts the whole visible set.
func (s *TaskService) ListTasks(ctx context.Context, actor models.Actor, status models.Status) (*models.TaskList, error) {
	if status != "" && !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}
	scope, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}

	filter := scope
	filter.Status = status
	tasks, err := s.tasks.GetTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	views, err := newUserCache(s.users).views(ctx, tasks)
	if err != nil {
		return nil, err
	}

	summary, err := s.statusSummary(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &models.TaskList{Tasks: views, StatusSummary: summary}, nil
}

func (s *TaskService) statusSummary(ctx context.Context, scope models.TaskFilter) (models.StatusSummary, error) {
	var summary models.StatusSummary
	var err error

	if summary.All, err = s.tasks.CountTasks(ctx, scope); err != nil {
		return summary, err
	}
	counts, err := s.countByStatus(ctx, scope)
	if err != nil {
		return summary, err
	}
	summary.PendingTasks = counts[models.StatusPending]
	summary.InProgressTasks = counts[models.StatusInProgress]
	summary.CompletedTasks = counts[models.StatusCompleted]
	return summary, nil
}

func (s *TaskService) countByStatus(ctx context.Context, scope models.TaskFilter) (map[models.Status]int, error) {
	counts := make(map[models.Status]int, len(models.Statuses))
	for _, status := range models.Statuses {
		filter := scope
		filter.Status = status
		n, err := s.tasks.CountTasks(ctx, filter)
		if err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, nil
}

func (s *TaskService) GetTask(ctx context.Context, actor models.Actor, id string) (*models.TaskView, error) {
	task, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, task) {
		return nil, errors.ErrNotAssigned
	}
	return s.view(ctx, *task)
}

func (s *TaskService) CreateTask(ctx context.Context, actor models.Actor, req models.CreateTaskRequest) (*models.TaskView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.ErrInvalidTitle
	}
	if req.DueDate == nil || req.DueDate.IsZero() {
		return nil, errors.ErrInvalidDueDate
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, errors.ErrInvalidPriority
	}
	assignees, err := s.checkAssignees(ctx, req.AssignedTo)
	if err != nil {
		return nil, err
	}

	now := s.now()
	task := models.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: req.Description,
		Priority:    priority,
		Status:      models.StatusPending,
		DueDate:     req.DueDate.UTC(),
		AssignedTo:  assignees,
		CreatedBy:   actor.ID,
		Attachments: append([]string{}, req.Attachments...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task = ApplyChecklistUpdate(task, req.TodoChecklist)

	if err := s.tasks.CreateTask(ctx, &task); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"event": "TASK_CREATED", "task_id": task.ID, "by": actor.ID}).Info("task created")
	return s.view(ctx, task)
}

// UpdateTask applies a partial edit. Only fields present in req change.
func (s *TaskService) UpdateTask(ctx context.Context, actor models.Actor, id string, req models.UpdateTaskRequest) (*models.TaskView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errors.ErrInvalidTitle
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, errors.ErrInvalidPriority
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		if req.DueDate.IsZero() {
			return nil, errors.ErrInvalidDueDate
		}
		task.DueDate = req.DueDate.UTC()
	}
	if req.AssignedTo != nil {
		assignees, err := s.checkAssignees(ctx, req.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = assignees
	}
	if req.Attachments != nil {
		task.Attachments = append([]string{}, req.Attachments...)
	}
	if req.TodoChecklist != nil {
		*task = ApplyChecklistUpdate(*task, req.TodoChecklist)
	}
	task.UpdatedAt = s.now()

	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return s.view(ctx, *task)
}

func (s *TaskService) DeleteTask(ctx context.Context, actor models.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"event": "TASK_DELETED", "task_id": id, "by": actor.ID}).Info("task deleted")
	return nil
}

// SetStatus overwrites the status without touching the checklist.
func (s *TaskService) SetStatus(ctx context.Context, actor models.Actor, id string, status models.Status) (*models.TaskView, error) {
	if !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}
	task, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, task) {
		return nil, errors.ErrNotAssigned
	}

	task.Status = status
	task.UpdatedAt = s.now()
	if err := s.tasks.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return s.view(ctx, *task)
}

func (s *TaskService) UpdateChecklist(ctx context.Context, actor models.Actor, id string, checklist []models.TodoItem) (*models.TaskView, error) {
	for _, item := range checklist {
		if strings.TrimSpace(item.Text) == "" {
			return nil, errors.ErrInvalidChecklist
		}
	}
	task, err := s.tasks.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, task) {
		return nil, errors.ErrNotAssigned
	}

	updated := ApplyChecklistUpdate(*task, checklist)
	updated.UpdatedAt = s.now()
	if err := s.tasks.UpdateTask(ctx, &updated); err != nil {
		return nil, err
	}
	return s.view(ctx, updated)
}

// checkAssignees requires a non-empty list of existing users and drops
// repeated ids while keeping the given order.
func (s *TaskService) checkAssignees(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, errors.ErrInvalidAssignees
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.users.GetUserByID(ctx, id); err != nil {
			if stderrors.Is(err, errors.ErrNotFound) {
				return nil, errors.ErrInvalidAssignees
			}
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *TaskService) view(ctx context.Context, task models.Task) (*models.TaskView, error) {
	v, err := newUserCache(s.users).view(ctx, task)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
