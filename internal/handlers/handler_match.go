package handlers

import (
	"log/slog"
	"net/http"

	"github.com/finbooks/bank_reconciliation_app/internal/core/domain"
	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// matchHandler handles HTTP requests for candidate discovery and matching.
type matchHandler struct {
	matchService portssvc.MatchSvcFacade
}

// newMatchHandler creates a new matchHandler.
func newMatchHandler(ms portssvc.MatchSvcFacade) *matchHandler {
	return &matchHandler{
		matchService: ms,
	}
}

// registerMatchRoutes registers match routes under a specific reconciliation.
func registerMatchRoutes(rg *gin.RouterGroup, matchService portssvc.MatchSvcFacade) {
	h := newMatchHandler(matchService)

	matches := rg.Group("/matches")
	{
		matches.POST("", h.createManualMatch)
		matches.GET("", h.listMatches)
		matches.DELETE("/:match_id", h.removeMatch)
	}

	rg.GET("/lines/:line_id/candidates", h.findCandidates)
}

// findCandidates godoc
// @Summary Find match candidates for a statement line
// @Description Scores plausible internal records for one line, sorted by descending confidence.
// @Tags matches
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Param   line_id path string true "Statement line ID"
// @Param   sourceType query string false "Restrict to one source type"
// @Success 200 {array} dto.MatchCandidate
// @Failure 400 {object} map[string]string "Invalid source type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Line not found"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/lines/{line_id}/candidates [get]
func (h *matchHandler) findCandidates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")
	lineID := c.Param("line_id")

	var sourceType *domain.MatchSourceType
	if raw := c.Query("sourceType"); raw != "" {
		st := domain.MatchSourceType(raw)
		if !st.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source type: " + raw})
			return
		}
		sourceType = &st
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	candidates, err := h.matchService.FindCandidates(c.Request.Context(), companyID, reconciliationID, lineID, sourceType, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, candidates)
}

// createManualMatch godoc
// @Summary Create a manual match
// @Description Claims a correspondence between a statement line and one internal record.
// @Tags matches
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Param   match body dto.CreateManualMatchRequest true "Match details"
// @Success 201 {object} dto.MatchResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Line or source already matched"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/matches [post]
func (h *matchHandler) createManualMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")

	var req dto.CreateManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateManualMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reconciliation_id", reconciliationID), slog.String("statement_line_id", req.StatementLineID))

	match, err := h.matchService.CreateManualMatch(c.Request.Context(), companyID, reconciliationID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Manual match created", slog.String("match_id", match.MatchID))
	c.JSON(http.StatusCreated, dto.ToMatchResponse(match))
}

// listMatches godoc
// @Summary List matches of a reconciliation
// @Tags matches
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Success 200 {array} dto.MatchResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/matches [get]
func (h *matchHandler) listMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	matches, err := h.matchService.ListMatches(c.Request.Context(), companyID, reconciliationID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchResponses(matches))
}

// removeMatch godoc
// @Summary Remove a match
// @Description Deletes a match and recomputes the variance. Removing an already-removed match succeeds.
// @Tags matches
// @Param   company_id path string true "Company ID"
// @Param   reconciliation_id path string true "Reconciliation ID"
// @Param   match_id path string true "Match ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Reconciliation not editable"
// @Security BearerAuth
// @Router /companies/{company_id}/reconciliations/{reconciliation_id}/matches/{match_id} [delete]
func (h *matchHandler) removeMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	reconciliationID := c.Param("reconciliation_id")
	matchID := c.Param("match_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reconciliation_id", reconciliationID), slog.String("match_id", matchID))

	if err := h.matchService.RemoveMatch(c.Request.Context(), companyID, reconciliationID, matchID, userID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Match removed")
	c.Status(http.StatusNoContent)
}
