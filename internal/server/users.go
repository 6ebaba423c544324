package server

import (
	"net/http"
	"taskmanager/internal/domain/models"

	"github.com/gin-gonic/gin"
)

func (api *TaskAPI) register(ctx *gin.Context) {
	var req models.RegisterRequest
	if !api.bind(ctx, &req) {
		return
	}
	resp, err := api.auth.Register(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	api.setTokenCookie(ctx, resp.Token)
	ctx.JSON(http.StatusCreated, resp)
}

func (api *TaskAPI) login(ctx *gin.Context) {
	var req models.LoginRequest
	if !api.bind(ctx, &req) {
		return
	}
	resp, err := api.auth.Login(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	api.setTokenCookie(ctx, resp.Token)
	ctx.JSON(http.StatusOK, resp)
}

func (api *TaskAPI) setTokenCookie(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(tokenCookie, token, int(api.cfg.JWTTTL.Seconds()), "/", "", false, true)
}

func (api *TaskAPI) getProfile(ctx *gin.Context) {
	actor, _ := actorFrom(ctx)
	user, err := api.auth.Profile(ctx.Request.Context(), actor)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (api *TaskAPI) updateProfile(ctx *gin.Context) {
	var req models.UpdateProfileRequest
	if !api.bind(ctx, &req) {
		return
	}
	actor, _ := actorFrom(ctx)
	resp, err := api.auth.UpdateProfile(ctx.Request.Context(), actor, req)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	api.setTokenCookie(ctx, resp.Token)
	ctx.JSON(http.StatusOK, resp)
}

func (api *TaskAPI) listUsers(ctx *gin.Context) {
	actor, _ := actorFrom(ctx)
	users, err := api.users.ListMembers(ctx.Request.Context(), actor)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

func (api *TaskAPI) getUser(ctx *gin.Context) {
	user, err := api.users.GetUser(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (api *TaskAPI) deleteUser(ctx *gin.Context) {
	actor, _ := actorFrom(ctx)
	if err := api.users.DeleteUser(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
