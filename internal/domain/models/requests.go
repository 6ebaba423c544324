package models

import "time"

type RegisterRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6,max=72"`
	ProfileImageURL  string `json:"profileImageUrl" validate:"omitempty,url"`
	AdminInviteToken string `json:"adminInviteToken"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name            string `json:"name" validate:"omitempty,min=2,max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"omitempty,min=6,max=72"`
	ProfileImageURL string `json:"profileImageUrl" validate:"omitempty,url"`
}

type CreateTaskRequest struct {
	Title         string     `json:"title" validate:"required,min=1,max=200"`
	Description   string     `json:"description" validate:"omitempty,max=2000"`
	Priority      Priority   `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	DueDate       *time.Time `json:"dueDate" validate:"required"`
	AssignedTo    []string   `json:"assignedTo" validate:"required,min=1,dive,required"`
	TodoChecklist []TodoItem `json:"todoChecklist" validate:"omitempty,dive"`
	Attachments   []string   `json:"attachments" validate:"omitempty,dive,required"`
}

// UpdateTaskRequest is a partial edit; nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title         *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=2000"`
	Priority      *Priority  `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	DueDate       *time.Time `json:"dueDate"`
	AssignedTo    []string   `json:"assignedTo" validate:"omitempty,dive,required"`
	TodoChecklist []TodoItem `json:"todoChecklist" validate:"omitempty,dive"`
	Attachments   []string   `json:"attachments" validate:"omitempty,dive,required"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

type UpdateChecklistRequest struct {
	TodoChecklist []TodoItem `json:"todoChecklist" validate:"required,dive"`
}
