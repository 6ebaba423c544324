package server

import (
	"net/http"
	"taskmanager/internal/domain/models"

	"github.com/gin-gonic/gin"
)

func (api *TaskAPI) getTasks(ctx *gin.Context) {
	actor, _ := actorFrom(ctx)
	list, err := api.tasks.ListTasks(ctx.Request.Context(), actor, models.Status(ctx.Query("status")))
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (api *TaskAPI) getTaskByID(ctx *gin.Context) {
	actor, _ := actorFrom(ctx)
	task, err := api.tasks.GetTask(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, task)
}

func (api *TaskAPI) getDashboard(ctx *gin.Context) {
	api.dashboard(ctx, true)
}

func (api *TaskAPI) getUserDashboard(ctx *gin.Context) {
	api.dashboard(ctx, false)
}

func (api *TaskAPI) dashboard(ctx *gin.Context, global bool) {
	actor, _ := actorFrom(ctx)
	d, err := api.tasks.Dashboard(ctx.Request.Context(), actor, global)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, d)
}

func (api *TaskAPI) createTask(ctx *gin.Context) {
	var req models.CreateTaskRequest
	if !api.bind(ctx, &req) {
		return
	}
	actor, _ := actorFrom(ctx)
	task, err := api.tasks.CreateTask(ctx.Request.Context(), actor, req)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Task created successfully", "task": task})
}

func (api *TaskAPI) updateTask(ctx *gin.Context) {
	var req models.UpdateTaskRequest
	if !api.bind(ctx, &req) {
		return
	}
	actor, _ := actorFrom(ctx)
	task, err := api.tasks.UpdateTask(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Task updated successfully", "updatedTask": task})
}

func (api *TaskAPI) deleteTask(ctx *gin.Context) {
	actor, _ := actorFrom(ctx)
	if err := api.tasks.DeleteTask(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (api *TaskAPI) updateTaskStatus(ctx *gin.Context) {
	var req models.UpdateStatusRequest
	if !api.bind(ctx, &req) {
		return
	}
	actor, _ := actorFrom(ctx)
	task, err := api.tasks.SetStatus(ctx.Request.Context(), actor, ctx.Param("id"), req.Status)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Task status updated", "task": task})
}

func (api *TaskAPI) updateTaskChecklist(ctx *gin.Context) {
	var req models.UpdateChecklistRequest
	if !api.bind(ctx, &req) {
		return
	}
	actor, _ := actorFrom(ctx)
	task, err := api.tasks.UpdateChecklist(ctx.Request.Context(), actor, ctx.Param("id"), req.TodoChecklist)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Task checklist updated", "task": task})
}
