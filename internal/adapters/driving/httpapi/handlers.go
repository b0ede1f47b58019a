package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/orgdex/internal/core/domain"
	"github.com/custodia-labs/orgdex/internal/logger"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListProjects(c *gin.Context) {
	query := domain.ListQuery{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Group:    c.Query("group"),
		Search:   c.Query("search"),
	}

	var err error
	if query.Limit, err = intQuery(c, "limit", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	if query.Offset, err = intQuery(c, "offset", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be an integer"})
		return
	}

	projects, err := s.catalog.List(c.Request.Context(), query)
	if err != nil {
		s.renderError(c, err)
		return
	}

	responses := make([]projectResponse, len(projects))
	for i := range projects {
		responses[i] = toProjectResponse(&projects[i])
	}
	c.JSON(http.StatusOK, gin.H{"projects": responses, "count": len(responses)})
}

func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.catalog.Stats(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":         stats.Total,
		"byCategory":    stats.ByCategory,
		"byStatus":      stats.ByStatus,
		"openPRs":       stats.OpenPRs,
		"recentCommits": stats.RecentCommit,
	})
}

func (s *Server) handleDiscover(c *gin.Context) {
	result, err := s.discovery.Run(c.Request.Context())
	if err != nil {
		logger.Warn("httpapi: discovery failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "discovery complete",
		"count":   result.Count,
		"mode":    result.Mode,
	})
}

// tagPatchRequest binds the partial tag update payload. Absent fields
// stay nil and are left untouched by the merge.
type tagPatchRequest struct {
	Category *string  `json:"category"`
	Status   *string  `json:"status"`
	Priority *string  `json:"priority"`
	Group    *string  `json:"group"`
	Custom   []string `json:"custom"`
}

func (s *Server) handleUpdateTags(c *gin.Context) {
	var req tagPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid tag payload",
			"fields": fieldErrors(err),
		})
		return
	}

	patch := domain.TagPatch{
		Category: req.Category,
		Status:   req.Status,
		Priority: req.Priority,
		Group:    req.Group,
		Custom:   req.Custom,
	}

	project, err := s.catalog.UpdateTags(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(project))
}

// fieldErrors extracts per-field detail from a binding failure.
func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		fields[field] = "expected " + typeErr.Type.String() + ", got " + typeErr.Value
		return fields
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fe := range validationErrs {
			fields[fe.Field()] = "failed on " + fe.Tag()
		}
		return fields
	}

	fields["body"] = err.Error()
	return fields
}

// renderError maps domain errors onto HTTP statuses.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Warn("httpapi: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
