package service

import (
	"math"
	"taskmanager/internal/domain/models"
)

// ApplyChecklistUpdate replaces the checklist of task and recomputes its
// progress. A fully completed non-empty checklist marks the task Completed,
// a partially completed one marks it In Progress, an untouched one leaves
// the status as it was.
func ApplyChecklistUpdate(task models.Task, checklist []models.TodoItem) models.Task {
	task.TodoChecklist = make([]models.TodoItem, len(checklist))
	copy(task.TodoChecklist, checklist)

	total := len(task.TodoChecklist)
	done := task.CompletedTodoCount()
	task.Progress = progress(done, total)

	switch {
	case total > 0 && done == total:
		task.Status = models.StatusCompleted
	case done > 0:
		task.Status = models.StatusInProgress
	}
	return task
}

func progress(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
