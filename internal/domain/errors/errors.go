package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("access denied")
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")
	ErrStoreFailure     = errors.New("store failure")
	ErrNotImplemented   = errors.New("not implemented")
	ErrInternalServer   = errors.New("internal server error")
	ErrBadRequest       = errors.New("malformed request")

	ErrUserNotFound       = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrTaskNotFound       = fmt.Errorf("task not found: %w", ErrNotFound)
	ErrUserAlreadyExists  = fmt.Errorf("user already exists: %w", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", ErrNotAuthenticated)
	ErrMissingToken       = fmt.Errorf("no token, authorization denied: %w", ErrNotAuthenticated)
	ErrInvalidToken       = fmt.Errorf("token failed: %w", ErrNotAuthenticated)
	ErrAdminOnly          = fmt.Errorf("access denied, admin only: %w", ErrNotAuthorized)
	ErrNotAssigned        = fmt.Errorf("task is not assigned to you: %w", ErrNotAuthorized)

	ErrInvalidName        = fmt.Errorf("invalid name: %w", ErrValidationFailed)
	ErrInvalidEmail       = fmt.Errorf("invalid email: %w", ErrValidationFailed)
	ErrInvalidPassword    = fmt.Errorf("invalid password: %w", ErrValidationFailed)
	ErrInvalidRole        = fmt.Errorf("invalid user role: %w", ErrValidationFailed)
	ErrInvalidStatus      = fmt.Errorf("invalid task status: %w", ErrValidationFailed)
	ErrInvalidPriority    = fmt.Errorf("invalid task priority: %w", ErrValidationFailed)
	ErrInvalidTitle       = fmt.Errorf("invalid task title: %w", ErrValidationFailed)
	ErrInvalidDescription = fmt.Errorf("invalid task description: %w", ErrValidationFailed)
	ErrInvalidDueDate     = fmt.Errorf("invalid due date: %w", ErrValidationFailed)
	ErrInvalidAssignees   = fmt.Errorf("assignedTo must be a non-empty list of existing users: %w", ErrValidationFailed)
	ErrInvalidChecklist   = fmt.Errorf("invalid todo checklist: %w", ErrValidationFailed)

	ErrConfigFileReadFailed = errors.New("failed to read config file")
	ErrConfigParseFailed    = errors.New("failed to parse config file")
	ErrConfigInvalidFormat  = errors.New("invalid config value")
	ErrUnknownStore         = errors.New("unknown store driver")

	ErrInvalidGzipRequest    = errors.New("invalid gzip request body")
	ErrGzipCompressionFailed = errors.New("gzip compression failed")
)
