// Package report renders task and user listings as xlsx workbooks.
package report

import (
	"fmt"
	"io"
	"strings"
	"taskmanager/internal/domain/models"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	TasksSheet  = "Tasks"
	UsersSheet  = "Users"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout = "2006-01-02"
)

var (
	taskHeaders = []string{"Task ID", "Title", "Description", "Priority", "Status", "Due Date", "Assigned To"}
	userHeaders = []string{"User Name", "Email", "Total Assigned Tasks", "Pending Tasks", "In Progress Tasks", "Completed Tasks"}
)

// WriteTasks writes one row per task.
func WriteTasks(w io.Writer, tasks []models.TaskView) error {
	rows := make([][]any, 0, len(tasks))
	for _, t := range tasks {
		assignees := make([]string, 0, len(t.AssignedTo))
		for _, u := range t.AssignedTo {
			assignees = append(assignees, fmt.Sprintf("%s (%s)", u.Name, u.Email))
		}
		rows = append(rows, []any{
			t.ID,
			t.Title,
			t.Description,
			string(t.Priority),
			string(t.Status),
			formatDate(t.DueDate),
			strings.Join(assignees, ", "),
		})
	}
	return write(w, TasksSheet, taskHeaders, rows)
}

// formatDate leaves the cell empty for tasks without a due date.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// WriteUsers writes one row per user with their task counts.
func WriteUsers(w io.Writer, users []models.UserWithTaskCounts) error {
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{
			u.Name,
			u.Email,
			u.PendingTasks + u.InProgressTasks + u.CompletedTasks,
			u.PendingTasks,
			u.InProgressTasks,
			u.CompletedTasks,
		})
	}
	return write(w, UsersSheet, userHeaders, rows)
}

func write(w io.Writer, sheet string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for col, header := range headers {
		if err := setCell(f, sheet, col+1, 1, header); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range rows {
		for col, value := range row {
			if err := setCell(f, sheet, col+1, i+2, value); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 22); err != nil {
		return err
	}

	return f.Write(w)
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
