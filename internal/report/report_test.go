package report

import (
	"bytes"
	"taskmanager/internal/domain/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestWriteTasks(t *testing.T) {
	assignees := []models.UserSummary{
		{ID: "m1", Name: "Mia", Email: "mia@example.com"},
		{ID: "m2", Name: "Max", Email: "max@example.com"},
	}

	tests := []struct {
		name  string
		tasks []models.TaskView
		want  [][]string
	}{
		{
			name: "dated task",
			tasks: []models.TaskView{{
				Task: models.Task{
					ID: "t1", Title: "Write report", Description: "quarterly",
					Priority: models.PriorityHigh, Status: models.StatusInProgress,
					DueDate: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
				},
				AssignedTo: assignees,
			}},
			want: [][]string{
				taskHeaders,
				{"t1", "Write report", "quarterly", "High", "In Progress", "2024-07-01", "Mia (mia@example.com), Max (max@example.com)"},
			},
		},
		{
			name: "no due date leaves the cell empty",
			tasks: []models.TaskView{{
				Task: models.Task{
					ID: "t2", Title: "Someday", Description: "later",
					Priority: models.PriorityLow, Status: models.StatusPending,
				},
				AssignedTo: assignees[:1],
			}},
			want: [][]string{
				taskHeaders,
				{"t2", "Someday", "later", "Low", "Pending", "", "Mia (mia@example.com)"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteTasks(&buf, tt.tasks))
			assert.Equal(t, tt.want, readRows(t, buf.Bytes(), TasksSheet))
		})
	}
}

func TestWriteUsers(t *testing.T) {
	tests := []struct {
		name  string
		users []models.UserWithTaskCounts
		want  [][]string
	}{
		{
			name:  "no users writes only headers",
			users: nil,
			want:  [][]string{userHeaders},
		},
		{
			name: "counts are summed into the total",
			users: []models.UserWithTaskCounts{
				{User: models.User{Name: "Mia", Email: "mia@example.com"}, PendingTasks: 2, InProgressTasks: 1, CompletedTasks: 3},
			},
			want: [][]string{userHeaders, {"Mia", "mia@example.com", "6", "2", "1", "3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteUsers(&buf, tt.users))
			assert.Equal(t, tt.want, readRows(t, buf.Bytes(), UsersSheet))
		})
	}
}
