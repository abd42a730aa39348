package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// autoMatchHandler handles HTTP requests for asynchronous auto-match runs.
type autoMatchHandler struct {
	autoMatchService portssvc.AutoMatchSvcFacade
}

// newAutoMatchHandler creates a new autoMatchHandler.
func newAutoMatchHandler(as portssvc.AutoMatchSvcFacade) *autoMatchHandler {
	return &autoMatchHandler{
		autoMatchService: as,
	}
}

// registerAutoMatchRoutes registers the enqueue route under a specific reconciliation.
func registerAutoMatchRoutes(rg *gin.RouterGroup, autoMatchService portssvc.AutoMatchSvcFacade) {
	h := newAutoMatchHandler(autoMatchService)
	rg.POST("/auto-match", h.enqueueAutoMatch)
}

// enqueueAutoMatch godoc
// @Summary Queue an auto-match run
// @Description Persists a pending job and hands it to the background worker. Poll the job for results.
// @Tags auto-match
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Success 202 {object} dto.AutoMatchJobResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Reconciliation not editable or queue full"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/auto-match [post]
func (h *autoMatchHandler) enqueueAutoMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reconciliation_id", reconciliationID))

	job, err := h.autoMatchService.EnqueueAutoMatch(c.Request.Context(), companyID, reconciliationID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Auto-match job queued", slog.String("job_id", job.JobID))
	c.JSON(http.StatusAccepted, dto.ToAutoMatchJobResponse(job))
}

// getJob godoc
// @Summary Get an auto-match job
// @Description Polls the status and counters of a queued auto-match run.
// @Tags auto-match
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   job_id path string true "Job ID"
// @Success 200 {object} dto.AutoMatchJobResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Job not found"
// @Security BearerAuth
// @Router /companies/{company_id}/auto-match-jobs/{job_id} [get]
func (h *autoMatchHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	jobID := c.Param("job_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	job, err := h.autoMatchService.GetJob(c.Request.Context(), companyID, jobID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAutoMatchJobResponse(job))
}
