package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbooks/bank_reconciliation_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates service errors into HTTP responses. Domain
// rule violations and lost races are all conflicts; the body carries the
// machine-readable code for clients that branch on it.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	if domainErr, ok := apperrors.AsDomainError(err); ok {
		logger.Warn("Domain rule violation", slog.String("code", domainErr.Code), slog.String("error", domainErr.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": domainErr.Message, "code": domainErr.Code})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
			logger.Warn("Request error", slog.String("error", appErr.Error()))
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			return
		}
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
