package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests for the reconciliation lifecycle.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: rs,
	}
}

// registerReconciliationRoutes registers lifecycle, match, adjustment, and
// auto-match routes under a specific company.
func registerReconciliationRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newReconciliationHandler(services.Reconciliation)

	reconciliations := rg.Group("/reconciliations")
	{
		reconciliations.POST("", h.startReconciliation)
		reconciliations.GET("", h.listReconciliations)
	}

	reconciliationSpecific := rg.Group("/reconciliations/:reconciliation_id")
	{
		reconciliationSpecific.GET("", h.getReconciliation)
		reconciliationSpecific.POST("/complete", h.complete)
		reconciliationSpecific.POST("/lock", h.lock)
		reconciliationSpecific.POST("/reopen", h.reopen)

		registerMatchRoutes(reconciliationSpecific, services.Match)
		registerAdjustmentRoutes(reconciliationSpecific, services.Adjustment)
		registerAutoMatchRoutes(reconciliationSpecific, services.AutoMatch)
	}

	// Job polling lives outside the reconciliation subtree since the job id is
	// the handle the enqueue response hands back.
	jobs := rg.Group("/auto-match-jobs")
	{
		jobHandler := newAutoMatchHandler(services.AutoMatch)
		jobs.GET("/:job_id", jobHandler.getJob)
	}
}

// startReconciliation godoc
// @Summary Start reconciling a statement
// @Description Creates a reconciliation for a statement and moves it to in-progress.
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   request body dto.StartReconciliationRequest true "Statement to reconcile"
// @Success 201 {object} dto.ReconciliationSnapshot
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Statement already reconciled"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations [post]
func (h *reconciliationHandler) startReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.StartReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("statement_id", req.StatementID))

	snapshot, err := h.reconciliationService.StartReconciliation(c.Request.Context(), companyID, req.StatementID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Reconciliation started", slog.String("reconciliation_id", snapshot.ReconciliationID))
	c.JSON(http.StatusCreated, snapshot)
}

// listReconciliations godoc
// @Summary List reconciliations of a company
// @Tags reconciliations
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListReconciliationsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations [get]
func (h *reconciliationHandler) listReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.reconciliationService.ListReconciliations(c.Request.Context(), companyID, userID, params)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getReconciliation godoc
// @Summary Get a reconciliation snapshot
// @Description Retrieves a reconciliation with its freshly computed variance.
// @Tags reconciliations
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationSnapshot
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id} [get]
func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshot, err := h.reconciliationService.GetReconciliation(c.Request.Context(), companyID, reconciliationID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// complete godoc
// @Summary Complete a reconciliation
// @Description Transitions in-progress to completed. Fails when unexplained variance remains.
// @Tags reconciliations
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationSnapshot
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Reconciliation unbalanced or not in progress"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/complete [post]
func (h *reconciliationHandler) complete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reconciliation_id", reconciliationID))

	snapshot, err := h.reconciliationService.Complete(c.Request.Context(), companyID, reconciliationID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Reconciliation completed")
	c.JSON(http.StatusOK, snapshot)
}

// lock godoc
// @Summary Lock a completed reconciliation
// @Description Transitions completed to locked. Locking an already-locked reconciliation is a no-op.
// @Tags reconciliations
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationSnapshot
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Reconciliation not completed"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/lock [post]
func (h *reconciliationHandler) lock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reconciliation_id", reconciliationID))

	snapshot, err := h.reconciliationService.Lock(c.Request.Context(), companyID, reconciliationID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Reconciliation locked")
	c.JSON(http.StatusOK, snapshot)
}

// reopen godoc
// @Summary Reopen a completed or locked reconciliation
// @Description Transitions back to in-progress within the acting user's role-bounded window.
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Param   request body dto.ReopenRequest true "Reason and window end"
// @Success 200 {object} dto.ReconciliationSnapshot
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Window exceeded or not reopenable"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/reopen [post]
func (h *reconciliationHandler) reopen(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")

	var req dto.ReopenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reopen", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reconciliation_id", reconciliationID))

	snapshot, err := h.reconciliationService.Reopen(c.Request.Context(), companyID, reconciliationID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Reconciliation reopened", slog.Int("reopen_count", snapshot.ReopenCount))
	c.JSON(http.StatusOK, snapshot)
}
