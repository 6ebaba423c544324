package models

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every known task status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type User struct {
	ID              string    `json:"_id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Email           string    `json:"email" bson:"email"`
	Password        string    `json:"-" bson:"password"`
	Role            Role      `json:"role" bson:"role"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty" bson:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Summary is the public projection used when a user is embedded in a task.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
	}
}

type UserSummary struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type TodoItem struct {
	Text      string `json:"text" bson:"text" validate:"required,max=500"`
	Completed bool   `json:"completed" bson:"completed"`
}

type Task struct {
	ID            string     `json:"_id" bson:"_id"`
	Title         string     `json:"title" bson:"title"`
	Description   string     `json:"description" bson:"description"`
	Priority      Priority   `json:"priority" bson:"priority"`
	Status        Status     `json:"status" bson:"status"`
	DueDate       time.Time  `json:"dueDate" bson:"dueDate"`
	AssignedTo    []string   `json:"assignedTo" bson:"assignedTo"`
	CreatedBy     string     `json:"createdBy" bson:"createdBy"`
	TodoChecklist []TodoItem `json:"todoChecklist" bson:"todoChecklist"`
	Attachments   []string   `json:"attachments" bson:"attachments"`
	Progress      int        `json:"progress" bson:"progress"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// CompletedTodoCount counts checklist items marked completed.
func (t Task) CompletedTodoCount() int {
	n := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			n++
		}
	}
	return n
}

func (t Task) IsAssignedTo(userID string) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// TaskFilter narrows a task listing or count. Zero values are not applied.
type TaskFilter struct {
	AssignedTo string
	Status     Status
	NotStatus  Status
	Priority   Priority
	DueBefore  time.Time
	Limit      int
}

// Matches reports whether t satisfies every set field of f. Limit is ignored.
func (f TaskFilter) Matches(t Task) bool {
	if f.AssignedTo != "" && !t.IsAssignedTo(f.AssignedTo) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.NotStatus != "" && t.Status == f.NotStatus {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if !f.DueBefore.IsZero() && !t.DueDate.Before(f.DueBefore) {
		return false
	}
	return true
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role Role
}
