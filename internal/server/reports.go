package server

import (
	"bytes"
	"net/http"
	"taskmanager/internal/report"

	"github.com/gin-gonic/gin"
)

func (api *TaskAPI) exportTasks(ctx *gin.Context) {
	actor, _ := actorFrom(ctx)
	list, err := api.tasks.ListTasks(ctx.Request.Context(), actor, "")
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteTasks(&buf, list.Tasks); err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	sendWorkbook(ctx, "tasks_report.xlsx", buf.Bytes())
}

func (api *TaskAPI) exportUsers(ctx *gin.Context) {
	actor, _ := actorFrom(ctx)
	users, err := api.users.ListMembers(ctx.Request.Context(), actor)
	if err != nil {
		respondError(ctx, api.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteUsers(&buf, users); err != nil {
		respondError(ctx, api.logger, err)
		return
	}
	sendWorkbook(ctx, "users_report.xlsx", buf.Bytes())
}

func sendWorkbook(ctx *gin.Context, filename string, data []byte) {
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, report.ContentType, data)
}
