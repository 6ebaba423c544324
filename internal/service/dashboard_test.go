package service

import (
	"context"
	"fmt"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	f.seedFive(t)

	tests := []struct {
		name   string
		actor  models.Actor
		global bool
		want   struct {
			stats      models.DashboardStatistics
			priorities models.TaskPriorityLevels
			recent     []string
		}
	}{
		{
			name:   "admin global",
			actor:  f.adminActor(),
			global: true,
			want: struct {
				stats      models.DashboardStatistics
				priorities models.TaskPriorityLevels
				recent     []string
			}{
				stats:      models.DashboardStatistics{TotalTasks: 5, PendingTasks: 3, InProgressTasks: 1, CompletedTasks: 1, OverdueTasks: 2},
				priorities: models.TaskPriorityLevels{Low: 1, Medium: 2, High: 2},
				recent:     []string{"t5", "t4", "t3", "t2", "t1"},
			},
		},
		{
			name:  "member self",
			actor: f.m1Actor(),
			want: struct {
				stats      models.DashboardStatistics
				priorities models.TaskPriorityLevels
				recent     []string
			}{
				stats:      models.DashboardStatistics{TotalTasks: 2, PendingTasks: 2, OverdueTasks: 1},
				priorities: models.TaskPriorityLevels{Low: 1, High: 1},
				recent:     []string{"t3", "t1"},
			},
		},
		{
			name:  "admin self has nothing assigned",
			actor: f.adminActor(),
			want: struct {
				stats      models.DashboardStatistics
				priorities models.TaskPriorityLevels
				recent     []string
			}{
				recent: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := f.tasks.Dashboard(context.Background(), tt.actor, tt.global)
			require.NoError(t, err)
			assert.Equal(t, tt.want.stats, d.Statistics)
			assert.Equal(t, tt.want.priorities, d.Charts.TaskPriorityLevels)
			assert.Equal(t, tt.want.recent, taskIDs(d.RecentTasks))

			dist := d.Charts.TaskDistribution
			assert.Equal(t, d.Statistics.TotalTasks, dist.All)
			assert.Equal(t, d.Statistics.PendingTasks, dist.Pending)
			assert.Equal(t, d.Statistics.InProgressTasks, dist.InProgress)
			assert.Equal(t, d.Statistics.CompletedTasks, dist.Completed)
		})
	}
}

func TestDashboardGlobalRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.tasks.Dashboard(context.Background(), f.m1Actor(), true)
	assert.ErrorIs(t, err, errors.ErrNotAuthorized)
}

func TestDashboardRecentTasksLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		require.NoError(t, f.store.CreateTask(ctx, &models.Task{
			ID:         fmt.Sprintf("t%02d", i),
			Title:      "bulk",
			Status:     models.StatusPending,
			Priority:   models.PriorityLow,
			AssignedTo: []string{"m1"},
			DueDate:    fixedNow.Add(time.Hour),
			CreatedAt:  fixedNow.Add(time.Duration(i) * time.Minute),
		}))
	}

	d, err := f.tasks.Dashboard(ctx, f.adminActor(), true)
	require.NoError(t, err)
	assert.Equal(t, 12, d.Statistics.TotalTasks)
	require.Len(t, d.RecentTasks, recentTasksLimit)
	assert.Equal(t, "t11", d.RecentTasks[0].ID)
	assert.Equal(t, "t02", d.RecentTasks[9].ID)
}
