package server

import (
	"errors"
	"net/http"

	"servertrain/internal/content"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": HealthMessage})
}

func (s *Server) listModules(c *gin.Context) {
	c.JSON(http.StatusOK, s.src.ListModules())
}

func (s *Server) rawModule(c *gin.Context) {
	raw, err := s.src.RawModule(c.Param("module_id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (s *Server) getScenario(c *gin.Context) {
	payload, err := s.src.Scenario(c.Param("module_id"), c.Param("scenario_id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// handleError maps content errors to the backend's {"detail": ...} bodies.
func (s *Server) handleError(c *gin.Context, err error) {
	var status int
	var detail string

	switch {
	case errors.Is(err, content.ErrModuleNotFound):
		status, detail = http.StatusNotFound, "Module not found"
	case errors.Is(err, content.ErrScenarioNotFound):
		status, detail = http.StatusNotFound, "Scenario not found"
	default:
		s.logger.Error("Unhandled content error", zap.Error(err))
		_ = c.Error(err)
		status, detail = http.StatusInternalServerError, "Internal Server Error"
	}

	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
