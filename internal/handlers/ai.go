package handlers

import (
	"net/http"
	"strings"

	"taskplanner/internal/models"

	"github.com/gin-gonic/gin"
)

// Minimum trimmed description lengths, matching request validation for
// the quick endpoints vs the combined analysis.
const (
	minDescriptionLen        = 5
	minAnalyzeDescriptionLen = 10
)

// Shared payload for all advisory endpoints.
type analysisRequest struct {
	TaskDescription string `json:"task_description" binding:"required,max=2000"`
	TaskTitle       string `json:"task_title" binding:"max=200"`
}

// descriptionOrBadRequest validates the trimmed description length.
func descriptionOrBadRequest(c *gin.Context, req analysisRequest, minLen int) (string, bool) {
	desc := strings.TrimSpace(req.TaskDescription)
	if len(desc) < minLen {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "task description is too short",
		})
		return "", false
	}
	return desc, true
}

// @Summary      Categorize a task description
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body  analysisRequest  true  "Description payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/ai/categorize [post]
// @Security     BearerAuth
func (h *Handler) categorize(c *gin.Context) {
	var req analysisRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	desc, ok := descriptionOrBadRequest(c, req, minDescriptionLen)
	if !ok {
		return
	}

	category := h.services.Advisor.Categorize(c.Request.Context(), desc)
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// @Summary      Estimate task duration in minutes
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body  analysisRequest  true  "Description payload"
// @Success      200  {object}  map[string]int
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/ai/estimate-time [post]
// @Security     BearerAuth
func (h *Handler) estimateTime(c *gin.Context) {
	var req analysisRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	desc, ok := descriptionOrBadRequest(c, req, minDescriptionLen)
	if !ok {
		return
	}

	minutes := h.services.Advisor.EstimateMinutes(c.Request.Context(), desc)
	c.JSON(http.StatusOK, gin.H{"estimated_minutes": minutes})
}

// @Summary      Full task analysis
// @Description  Category, duration estimate, subtasks, suggested priority and tips
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body  analysisRequest  true  "Description payload"
// @Success      200  {object}  service.Analysis
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/ai/analyze [post]
// @Security     BearerAuth
func (h *Handler) analyze(c *gin.Context) {
	var req analysisRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	desc, ok := descriptionOrBadRequest(c, req, minAnalyzeDescriptionLen)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	result := h.services.Advisor.Analyze(ctx, desc, strings.TrimSpace(req.TaskTitle))

	userID, _ := currentUserID(c)
	// Activity log is best-effort; analysis already succeeded.
	if err := h.services.Activity.Record(ctx, models.TaskEvent{
		OwnerID:     userID,
		Type:        "TASK_ANALYZED",
		Description: "Description analyzed",
		Metadata: map[string]any{
			"category":          result.Category,
			"estimated_minutes": result.EstimatedMinutes,
		},
	}); err != nil && h.log != nil {
		h.log.Infow("analyze_event_record_failed", "err", err)
	}

	c.JSON(http.StatusOK, result)
}
