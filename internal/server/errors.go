package server

import (
	stderrors "errors"
	"net/http"
	"strings"
	"taskmanager/internal/domain/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/sirupsen/logrus"
)

// statusFor maps a domain error to its HTTP status and stable error code.
func statusFor(err error) (int, error) {
	switch {
	case stderrors.Is(err, errors.ErrValidationFailed):
		return http.StatusBadRequest, errors.ErrValidationFailed
	case stderrors.Is(err, errors.ErrBadRequest), stderrors.Is(err, errors.ErrInvalidGzipRequest):
		return http.StatusBadRequest, errors.ErrBadRequest
	case stderrors.Is(err, errors.ErrNotAuthenticated):
		return http.StatusUnauthorized, errors.ErrNotAuthenticated
	case stderrors.Is(err, errors.ErrNotAuthorized):
		return http.StatusForbidden, errors.ErrNotAuthorized
	case stderrors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound, errors.ErrNotFound
	case stderrors.Is(err, errors.ErrConflict):
		return http.StatusConflict, errors.ErrConflict
	case stderrors.Is(err, errors.ErrNotImplemented):
		return http.StatusNotImplemented, errors.ErrNotImplemented
	case stderrors.Is(err, errors.ErrStoreFailure):
		return http.StatusInternalServerError, errors.ErrStoreFailure
	default:
		return http.StatusInternalServerError, errors.ErrInternalServer
	}
}

func respondError(ctx *gin.Context, logger *logrus.Logger, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"event":  "REQUEST_FAILED",
			"method": ctx.Request.Method,
			"path":   ctx.FullPath(),
		}).Errorf("request failed: %v", err)
		message = "Server error"
	}
	ctx.AbortWithStatusJSON(status, gin.H{"message": message, "error": code.Error()})
}

func validationErrorToErrorResponse(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			field, _, _ := strings.Cut(verr.Field(), "[")
			switch field {
			case "Name":
				return errors.ErrInvalidName
			case "Email":
				return errors.ErrInvalidEmail
			case "Password":
				return errors.ErrInvalidPassword
			case "Status":
				return errors.ErrInvalidStatus
			case "Title":
				return errors.ErrInvalidTitle
			case "Description":
				return errors.ErrInvalidDescription
			case "Priority":
				return errors.ErrInvalidPriority
			case "DueDate":
				return errors.ErrInvalidDueDate
			case "AssignedTo":
				return errors.ErrInvalidAssignees
			case "TodoChecklist", "Text":
				return errors.ErrInvalidChecklist
			}
		}
	}
	return errors.ErrValidationFailed
}
