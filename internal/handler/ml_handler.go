package handler

import (
	"net/http"

	"hyvai/internal/repository"
	"hyvai/pkg/mlrisk"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MLHandler exposes the aggregated training dataset and proxies batch
// predictions to the external model.
type MLHandler struct {
	analyticsRepo *repository.AnalyticsRepository
	predictor     *mlrisk.Client
	log           *logrus.Logger
}

func NewMLHandler(analyticsRepo *repository.AnalyticsRepository, predictor *mlrisk.Client, log *logrus.Logger) *MLHandler {
	return &MLHandler{analyticsRepo: analyticsRepo, predictor: predictor, log: log}
}

// Dataset returns the per-user feature rows.
func (h *MLHandler) Dataset(c *gin.Context) {
	rows, err := h.analyticsRepo.MLDataset()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Predict forwards feature rows to the predictor and merges the
// predicted label and confidence back per user.
func (h *MLHandler) Predict(c *gin.Context) {
	var req struct {
		Users []repository.MLFeatureRow `json:"users" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid data format: expecting an array of users"})
		return
	}
	predictions, err := h.predictor.PredictRisk(req.Users)
	if err != nil {
		h.log.WithError(err).Error("ml prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "prediction failed, check ML server or input"})
		return
	}
	enriched := make([]gin.H, 0, len(req.Users))
	for _, u := range req.Users {
		row := gin.H{
			"user_id":         u.UserID,
			"name":            u.Name,
			"avg_score":       u.AvgScore,
			"score_stddev":    u.ScoreStddev,
			"missed_payments": u.MissedPayments,
			"ontime_payments": u.OntimePayments,
		}
		if p, ok := predictions[u.UserID]; ok {
			row["predicted_risk"] = p.PredictedRisk
			row["confidence"] = p.Confidence
		} else {
			row["predicted_risk"] = "unknown"
			row["confidence"] = nil
		}
		enriched = append(enriched, row)
	}
	c.JSON(http.StatusOK, gin.H{"predictions": enriched})
}
