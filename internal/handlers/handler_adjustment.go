package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adjustmentHandler handles HTTP requests for reconciliation adjustments.
type adjustmentHandler struct {
	adjustmentService portssvc.AdjustmentSvcFacade
}

// newAdjustmentHandler creates a new adjustmentHandler.
func newAdjustmentHandler(as portssvc.AdjustmentSvcFacade) *adjustmentHandler {
	return &adjustmentHandler{
		adjustmentService: as,
	}
}

// registerAdjustmentRoutes registers adjustment routes under a specific reconciliation.
func registerAdjustmentRoutes(rg *gin.RouterGroup, adjustmentService portssvc.AdjustmentSvcFacade) {
	h := newAdjustmentHandler(adjustmentService)

	adjustments := rg.Group("/adjustments")
	{
		adjustments.POST("", h.createAdjustment)
		adjustments.GET("", h.listAdjustments)
		adjustments.PUT("/:adjustment_id", h.updateAdjustment)
		adjustments.DELETE("/:adjustment_id", h.deleteAdjustment)
	}
}

// createAdjustment godoc
// @Summary Create an adjustment
// @Description Records a variance explanation. The sign convention for the type is applied server-side.
// @Tags adjustments
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Param   adjustment body dto.CreateAdjustmentRequest true "Adjustment details"
// @Success 201 {object} dto.AdjustmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Reconciliation not editable"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/adjustments [post]
func (h *adjustmentHandler) createAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")

	var req dto.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reconciliation_id", reconciliationID), slog.String("adjustment_type", req.AdjustmentType))

	adjustment, err := h.adjustmentService.CreateAdjustment(c.Request.Context(), companyID, reconciliationID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Adjustment created", slog.String("adjustment_id", adjustment.AdjustmentID))
	c.JSON(http.StatusCreated, dto.ToAdjustmentResponse(adjustment))
}

// listAdjustments godoc
// @Summary List adjustments of a reconciliation
// @Tags adjustments
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Success 200 {array} dto.AdjustmentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/adjustments [get]
func (h *adjustmentHandler) listAdjustments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	adjustments, err := h.adjustmentService.ListAdjustments(c.Request.Context(), companyID, reconciliationID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAdjustmentResponses(adjustments))
}

// updateAdjustment godoc
// @Summary Update an adjustment
// @Description Updates amount and/or description. The sign convention is re-applied to a new amount.
// @Tags adjustments
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Param   adjustment_id path string true "Adjustment ID"
// @Param   adjustment body dto.UpdateAdjustmentRequest true "Fields to update"
// @Success 200 {object} dto.AdjustmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Adjustment not found"
// @Failure 409 {object} map[string]string "Reconciliation not editable"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/adjustments/{adjustment_id} [put]
func (h *adjustmentHandler) updateAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")
	adjustmentID := c.Param("adjustment_id")

	var req dto.UpdateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reconciliation_id", reconciliationID), slog.String("adjustment_id", adjustmentID))

	adjustment, err := h.adjustmentService.UpdateAdjustment(c.Request.Context(), companyID, reconciliationID, adjustmentID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Adjustment updated")
	c.JSON(http.StatusOK, dto.ToAdjustmentResponse(adjustment))
}

// deleteAdjustment godoc
// @Summary Delete an adjustment
// @Description Removes an adjustment. Deleting an already-removed adjustment succeeds.
// @Tags adjustments
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Param   adjustment_id path string true "Adjustment ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Reconciliation not editable"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/adjustments/{adjustment_id} [delete]
func (h *adjustmentHandler) deleteAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")
	adjustmentID := c.Param("adjustment_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reconciliation_id", reconciliationID), slog.String("adjustment_id", adjustmentID))

	if err := h.adjustmentService.DeleteAdjustment(c.Request.Context(), companyID, reconciliationID, adjustmentID, userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Adjustment deleted")
	c.Status(http.StatusNoContent)
}
