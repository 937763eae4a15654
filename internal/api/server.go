package api

import (
	"github.com/gin-gonic/gin"

	"taskpulse/internal/priority"
	"taskpulse/internal/storage"
	"taskpulse/internal/sweep"
)

// Server exposes the CRUD surface of the task app plus a manual sweep
// trigger. Priority values are computed on read and never persisted.
type Server struct {
	repo    storage.Repository
	params  priority.Params
	sweeper *sweep.Sweeper
	router  *gin.Engine
}

func NewServer(repo storage.Repository, params priority.Params, sweeper *sweep.Sweeper) *Server {
	router := gin.Default()

	s := &Server{
		repo:    repo,
		params:  params,
		sweeper: sweeper,
		router:  router,
	}

	api := router.Group("/api")
	{
		api.GET("/healthz", s.handleHealthz)

		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.POST("/users", s.handleCreateUser)
		api.GET("/users/:username", s.handleGetUser)
		api.PUT("/users/:username/webhook", s.handleUpdateWebhook)
		api.PUT("/users/:username/fcm-token", s.handleUpdateFCMToken)

		api.POST("/sweep", s.handleRunSweep)
	}

	return s
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests and for embedding into an existing
// http.Server.
func (s *Server) Handler() *gin.Engine {
	return s.router
}
