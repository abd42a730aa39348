package handlers

import (
	"net/http"

	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// auditHandler serves the append-only audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// newAuditHandler creates a new auditHandler.
func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{
		auditService: as,
	}
}

// registerAuditRoutes registers the audit listing route under a specific company.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)
	rg.GET("/audit/:subject_id", h.listBySubject)
}

// listBySubject godoc
// @Summary List audit entries for a subject
// @Description Retrieves audit trail entries for one subject (reconciliation, match, or adjustment), newest first.
// @Tags audit
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   subject_id path string true "Subject ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAuditEntriesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /companies/{company_id}/audit/{subject_id} [get]
func (h *auditHandler) listBySubject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	subjectID := c.Param("subject_id")

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

	resp, err := h.auditService.ListBySubject(c.Request.Context(), companyID, subjectID, userID, params)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
