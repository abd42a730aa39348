package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statementHandler handles HTTP requests related to bank statements.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

// newStatementHandler creates a new statementHandler.
func newStatementHandler(ss portssvc.StatementSvcFacade) *statementHandler {
	return &statementHandler{
		statementService: ss,
	}
}

// registerStatementRoutes registers statement routes under a specific company.
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvcFacade) {
	h := newStatementHandler(statementService)

	statements := rg.Group("/statements")
	{
		statements.POST("", h.createStatement)
		statements.GET("", h.listStatements)
		statements.GET("/:statement_id", h.getStatement)
		statements.GET("/:statement_id/lines", h.listStatementLines)
	}
}

// createStatement godoc
// @Summary Import a parsed bank statement
// @Description Persists a statement with its lines. Lines sharing an external ID are deduplicated.
// @Tags statements
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   statement body dto.CreateStatementRequest true "Statement and lines"
// @Success 201 {object} dto.CreateStatementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{company_id}/statements [post]
func (h *statementHandler) createStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.CreateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("creator_user_id", creatorUserID))

	resp, err := h.statementService.CreateStatement(c.Request.Context(), companyID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Statement imported successfully",
		slog.String("statement_id", resp.StatementID),
		slog.Int("lines_imported", resp.LinesImported),
		slog.Int("duplicates_skipped", resp.DuplicatesSkipped))
	c.JSON(http.StatusCreated, resp)
}

// listStatements godoc
// @Summary List statements of a company
// @Tags statements
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListStatementsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /companies/{company_id}/statements [get]
func (h *statementHandler) listStatements(c *gin.Context) {
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

	resp, err := h.statementService.ListStatements(c.Request.Context(), companyID, userID, params)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getStatement godoc
// @Summary Get a statement
// @Tags statements
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   statement_id path string true "Statement ID"
// @Success 200 {object} dto.StatementResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Statement not found"
// @Security BearerAuth
// @Router /companies/{company_id}/statements/{statement_id} [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	statementID := c.Param("statement_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	statement, err := h.statementService.GetStatement(c.Request.Context(), companyID, statementID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatementResponse(statement))
}

// listStatementLines godoc
// @Summary List lines of a statement
// @Description Retrieves statement lines in (transaction date, line number) order.
// @Tags statements
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   statement_id path string true "Statement ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListStatementLinesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Statement not found"
// @Security BearerAuth
// @Router /companies/{company_id}/statements/{statement_id}/lines [get]
func (h *statementHandler) listStatementLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	statementID := c.Param("statement_id")

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

	resp, err := h.statementService.ListStatementLines(c.Request.Context(), companyID, statementID, userID, params)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
