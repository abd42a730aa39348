package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/bank_reconciliation_app/internal/core/ports/services"
	"github.com/finbooks/bank_reconciliation_app/internal/dto"
	"github.com/finbooks/bank_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler handles HTTP requests related to companies and memberships.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

// newCompanyHandler creates a new companyHandler.
func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{
		companyService: cs,
	}
}

// registerCompanyRoutes registers routes for companies and everything nested
// under a specific company: statements, reconciliations, and the audit trail.
func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newCompanyHandler(services.Company)

	companiesTopLevel := rg.Group("/companies")
	{
		companiesTopLevel.POST("", h.createCompany)
		companiesTopLevel.GET("", h.listUserCompanies)
	}

	companySpecific := rg.Group("/companies/:company_id")
	{
		companySpecific.GET("", h.getCompany)

		companyMembers := companySpecific.Group("/members")
		{
			companyMembers.POST("", h.addMember)
		}

		registerStatementRoutes(companySpecific, services.Statement)
		registerReconciliationRoutes(companySpecific, services)
		registerAuditRoutes(companySpecific, services.Audit)
	}
}

// createCompany godoc
// @Summary Create a new company
// @Description Creates a new company and assigns the creator as admin.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create company"
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))

	newCompany, err := h.companyService.CreateCompany(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Company created successfully", slog.String("company_id", newCompany.CompanyID))
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(newCompany))
}

// listUserCompanies godoc
// @Summary List companies for current user
// @Description Retrieves the companies the authenticated user is a member of.
// @Tags companies
// @Produce  json
// @Success 200 {array} dto.CompanyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listUserCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	companies, err := h.companyService.ListUserCompanies(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponses(companies))
}

// getCompany godoc
// @Summary Get a company
// @Description Retrieves a company the authenticated user is a member of.
// @Tags companies
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{company_id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	company, err := h.companyService.GetCompanyByID(c.Request.Context(), companyID, userID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// addMember godoc
// @Summary Add a member to a company
// @Description Adds or updates a user's membership with a given role (requires admin).
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   member body dto.AddMemberRequest true "User ID and role"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (caller is not admin)"
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{company_id}/members [post]
func (h *companyHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Acting user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("company_id", companyID), slog.String("acting_user_id", actingUserID))

	if err := h.companyService.AddMember(c.Request.Context(), companyID, req, actingUserID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Member added successfully", slog.String("member_user_id", req.UserID))
	c.Status(http.StatusNoContent)
}
