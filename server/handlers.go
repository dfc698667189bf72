package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"github.com/warriorguo/dagflow/types"
)

// ExecuteRequest is the body of POST /v1/workflows/:id/execute.
type ExecuteRequest struct {
	Input       types.Data `json:"input"`
	TriggeredBy string     `json:"triggered_by"`
}

func (s *Server) handleSaveWorkflow(c *gin.Context) {
	workflow, err := bindWorkflow(c)
	if err != nil {
		replyError(c, errors.BadRequestf("parse workflow: %v", err))
		return
	}
	if err := s.engine.SaveWorkflow(c.Request.Context(), workflow); err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": workflow.ID})
}

func (s *Server) handleListWorkflows(c *gin.Context) {
	ids, err := s.engine.ListWorkflowIDs(c.Request.Context())
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflows": ids})
}

func (s *Server) handleGetWorkflow(c *gin.Context) {
	workflow, err := s.engine.GetWorkflow(c.Request.Context(), c.Param("id"))
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, workflow)
}

func (s *Server) handleRemoveWorkflow(c *gin.Context) {
	if err := s.engine.RemoveWorkflow(c.Request.Context(), c.Param("id")); err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (s *Server) handleValidateWorkflow(c *gin.Context) {
	result, err := s.engine.ValidateWorkflow(c.Request.Context(), c.Param("id"))
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handlePlanWorkflow(c *gin.Context) {
	plan, err := s.engine.PlanWorkflow(c.Request.Context(), c.Param("id"))
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (s *Server) handleRenderWorkflow(c *gin.Context) {
	dot, err := s.engine.RenderWorkflow(c.Request.Context(), c.Param("id"))
	if err != nil {
		replyError(c, err)
		return
	}
	c.String(http.StatusOK, dot)
}

func (s *Server) handleExecuteWorkflow(c *gin.Context) {
	request := &ExecuteRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(request); err != nil {
			replyError(c, errors.BadRequestf("parse request: %v", err))
			return
		}
	}
	if request.TriggeredBy == "" {
		request.TriggeredBy = "api"
	}

	execution, err := s.engine.ExecuteWorkflow(c.Request.Context(), c.Param("id"), request.Input, request.TriggeredBy)
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, execution)
}

func (s *Server) handleGetExecution(c *gin.Context) {
	execution, err := s.engine.GetExecution(c.Request.Context(), c.Param("id"))
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, execution)
}

func (s *Server) handleGetNodeRecords(c *gin.Context) {
	// a missing execution is a 404, not an empty record set
	if _, err := s.engine.GetExecution(c.Request.Context(), c.Param("id")); err != nil {
		replyError(c, err)
		return
	}
	records, err := s.engine.GetNodeRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		replyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": records})
}

func (s *Server) handleRenderExecution(c *gin.Context) {
	dot, err := s.engine.RenderExecution(c.Request.Context(), c.Param("id"))
	if err != nil {
		replyError(c, err)
		return
	}
	c.String(http.StatusOK, dot)
}

/**
 * bindWorkflow accepts a definition as JSON or, when the content type
 * says so, as YAML.
 */
func bindWorkflow(c *gin.Context) (*types.Workflow, error) {
	contentType := c.ContentType()
	if contentType == "application/x-yaml" || contentType == "text/yaml" {
		body, err := c.GetRawData()
		if err != nil {
			return nil, err
		}
		return types.ParseWorkflowYAML(body)
	}

	workflow := &types.Workflow{}
	if err := c.ShouldBindJSON(workflow); err != nil {
		return nil, err
	}
	return workflow, nil
}

func replyError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsBadRequest(err):
		status = http.StatusBadRequest
	case errors.IsAlreadyExists(err):
		status = http.StatusConflict
	case errors.IsMethodNotAllowed(err):
		// the engine refuses work while shutting down
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
