package handler

import (
	"errors"
	"net/http"

	"hyvai/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// mapNotFound translates a repository miss into the typed refusal.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return service.ErrNotFound
	}
	return err
}

// respondServiceError maps business-rule refusals to their HTTP statuses.
// Anything unrecognized is an internal error: logged in full, returned as
// a generic message so datastore diagnostics never leak.
func respondServiceError(c *gin.Context, log *logrus.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotEligible),
		errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrUpfrontNotMet),
		errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, service.ErrRejectionReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrHighRiskEmployee),
		errors.Is(err, service.ErrHighRiskCompany),
		errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		log.WithError(err).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
