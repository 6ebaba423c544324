package server

import (
	"net/http"
	"taskmanager/internal/auth"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	actorKey    = "actor"
	tokenCookie = "jwt_token"
)

// authenticate resolves the bearer token, falling back to the token cookie,
// and stores the actor on the request context.
func (api *TaskAPI) authenticate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := auth.ExtractBearer(ctx.GetHeader("Authorization"))
		if err != nil {
			if cookie, cerr := ctx.Cookie(tokenCookie); cerr == nil && cookie != "" {
				token, err = cookie, nil
			}
		}
		if err != nil {
			respondError(ctx, api.logger, err)
			return
		}

		actor, err := api.auth.Authenticate(ctx.Request.Context(), token)
		if err != nil {
			respondError(ctx, api.logger, err)
			return
		}
		ctx.Set(actorKey, actor)
		ctx.Next()
	}
}

func (api *TaskAPI) adminOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, ok := actorFrom(ctx)
		if !ok {
			respondError(ctx, api.logger, errors.ErrMissingToken)
			return
		}
		switch actor.Role {
		case models.RoleAdmin:
			ctx.Next()
		case models.RoleMember:
			respondError(ctx, api.logger, errors.ErrAdminOnly)
		default:
			respondError(ctx, api.logger, errors.ErrNotAuthorized)
		}
	}
}

func actorFrom(ctx *gin.Context) (models.Actor, bool) {
	v, ok := ctx.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		entry := logger.WithFields(logrus.Fields{
			"event":   "HTTP_REQUEST",
			"method":  ctx.Request.Method,
			"path":    ctx.Request.URL.Path,
			"status":  ctx.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		switch status := ctx.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request handled")
		case status >= http.StatusBadRequest:
			entry.Warn("request handled")
		default:
			entry.Info("request handled")
		}
	}
}
