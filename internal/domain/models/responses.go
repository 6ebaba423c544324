package models

// TaskView is a task as returned to clients: user references are populated
// and the checklist progress counter is attached.
type TaskView struct {
	Task
	AssignedTo         []UserSummary `json:"assignedTo"`
	CreatedBy          *UserSummary  `json:"createdBy,omitempty"`
	CompletedTodoCount int           `json:"completedTodoCount"`
}

type StatusSummary struct {
	All             int `json:"all"`
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
}

type TaskList struct {
	Tasks         []TaskView    `json:"tasks"`
	StatusSummary StatusSummary `json:"statusSummary"`
}

type DashboardStatistics struct {
	TotalTasks      int `json:"totalTasks"`
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
	OverdueTasks    int `json:"overdueTasks"`
}

type TaskDistribution struct {
	Pending    int `json:"Pending"`
	InProgress int `json:"InProgress"`
	Completed  int `json:"Completed"`
	All        int `json:"All"`
}

type TaskPriorityLevels struct {
	Low    int `json:"Low"`
	Medium int `json:"Medium"`
	High   int `json:"High"`
}

type DashboardCharts struct {
	TaskDistribution   TaskDistribution   `json:"taskDistribution"`
	TaskPriorityLevels TaskPriorityLevels `json:"taskPriorityLevels"`
}

type Dashboard struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []TaskView          `json:"recentTasks"`
}

type UserWithTaskCounts struct {
	User
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
}

type AuthResponse struct {
	User
	Token string `json:"token"`
}
