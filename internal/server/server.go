package server

import (
	"context"
	"net/http"
	"taskmanager/internal/auth"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/logging"
	"taskmanager/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type TaskAPI struct {
	httpSrv *http.Server
	auth    *service.AuthService
	tasks   *service.TaskService
	users   *service.UserService
	health  Pinger
	logger  *logrus.Logger
	cfg     *Config
	valid   *validator.Validate
}

func NewTaskAPI(users service.UserRepository, tasks service.TaskRepository, cfg *Config, logger *logrus.Logger) *TaskAPI {
	if users == nil || tasks == nil {
		return nil
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = logging.Discard()
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	api := &TaskAPI{
		httpSrv: &http.Server{
			Addr:              cfg.ListenAddr(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		auth:   service.NewAuthService(users, tokens, cfg.AdminInviteToken, logger),
		tasks:  service.NewTaskService(tasks, users, logger),
		users:  service.NewUserService(users, tasks),
		logger: logger,
		cfg:    cfg,
		valid:  validator.New(),
	}
	if p, ok := tasks.(Pinger); ok {
		api.health = p
	}

	api.configRoutes()
	return api
}

func (api *TaskAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}
	api.logger.WithFields(logrus.Fields{"event": "SERVER_STARTED", "addr": api.httpSrv.Addr}).Info("task service listening")
	return api.httpSrv.ListenAndServe()
}

func (api *TaskAPI) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}
	return api.httpSrv.Shutdown(ctx)
}

func (api *TaskAPI) configRoutes() {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), RequestLogger(api.logger), GzipRequestDecompress(), GzipResponseCompress())

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "route not found", "error": errors.ErrNotFound.Error()})
	})
	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"message": "method not allowed", "error": errors.ErrBadRequest.Error()})
	})

	root := router.Group("/api")
	root.GET("/healthz", api.healthz)

	authGroup := root.Group("/auth")
	{
		authGroup.POST("/register", api.register)
		authGroup.POST("/login", api.login)

		profile := authGroup.Group("/profile", api.authenticate())
		profile.GET("", api.getProfile)
		profile.POST("", api.getProfile)
		profile.PUT("", api.updateProfile)
	}

	users := root.Group("/users", api.authenticate())
	{
		users.GET("", api.adminOnly(), api.listUsers)
		users.GET("/:id", api.getUser)
		users.DELETE("/:id", api.adminOnly(), api.deleteUser)
	}

	tasks := root.Group("/tasks", api.authenticate())
	{
		tasks.GET("/dashboard-data", api.adminOnly(), api.getDashboard)
		tasks.GET("/user-dashboard-data", api.getUserDashboard)
		tasks.GET("", api.getTasks)
		tasks.GET("/:id", api.getTaskByID)
		tasks.POST("", api.adminOnly(), api.createTask)
		tasks.PUT("/:id", api.adminOnly(), api.updateTask)
		tasks.DELETE("/:id", api.adminOnly(), api.deleteTask)
		tasks.PUT("/:id/status", api.updateTaskStatus)
		tasks.PUT("/:id/todo", api.updateTaskChecklist)
	}

	reports := root.Group("/reports", api.authenticate(), api.adminOnly())
	{
		reports.GET("/export/tasks", api.exportTasks)
		reports.GET("/export/users", api.exportUsers)
	}

	api.httpSrv.Handler = cors.New(cors.Options{
		AllowedOrigins:   api.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Content-Encoding"},
		AllowCredentials: true,
	}).Handler(router)
}

func (api *TaskAPI) healthz(ctx *gin.Context) {
	if api.health != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := api.health.Ping(pingCtx); err != nil {
			api.logger.WithField("event", "HEALTHCHECK_FAILED").Warnf("store ping failed: %v", err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bind decodes a JSON body and runs struct validation on it.
func (api *TaskAPI) bind(ctx *gin.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		respondError(ctx, api.logger, errors.ErrBadRequest)
		return false
	}
	if err := api.valid.Struct(req); err != nil {
		respondError(ctx, api.logger, validationErrorToErrorResponse(err))
		return false
	}
	return true
}
