package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warriorguo/dagflow/types"
)

/**
 * Server exposes one engine over HTTP. Workflow definitions, validation,
 * planning, execution and the run history all hang off /v1, Prometheus
 * scrapes /metrics.
 */
type Server struct {
	engine types.Engine
	router *gin.Engine
}

func New(engine types.Engine) *Server {
	s := &Server{
		engine: engine,
		router: gin.Default(),
	}
	s.registerRoutes()
	return s
}

// Router exposes the gin router so callers can mount it on their own
// http.Server and control the listener lifecycle.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")

	workflows := v1.Group("/workflows")
	{
		workflows.POST("", s.handleSaveWorkflow)
		workflows.GET("", s.handleListWorkflows)
		workflows.GET("/:id", s.handleGetWorkflow)
		workflows.DELETE("/:id", s.handleRemoveWorkflow)

		workflows.GET("/:id/validate", s.handleValidateWorkflow)
		workflows.GET("/:id/plan", s.handlePlanWorkflow)
		workflows.GET("/:id/render", s.handleRenderWorkflow)

		workflows.POST("/:id/execute", s.handleExecuteWorkflow)
	}

	executions := v1.Group("/executions")
	{
		executions.GET("/:id", s.handleGetExecution)
		executions.GET("/:id/nodes", s.handleGetNodeRecords)
		executions.GET("/:id/render", s.handleRenderExecution)
	}
}
