package handler

import (
	"errors"
	"net/http"

	"hyvai/internal/domain"
	"hyvai/internal/middleware"
	"hyvai/internal/repository"
	"hyvai/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InstallmentHandler serves the employee-facing installment surface.
type InstallmentHandler struct {
	installmentSvc  *service.InstallmentService
	scoringSvc      *service.ScoringService
	installmentRepo *repository.InstallmentRepository
	log             *logrus.Logger
}

func NewInstallmentHandler(
	installmentSvc *service.InstallmentService,
	scoringSvc *service.ScoringService,
	installmentRepo *repository.InstallmentRepository,
	log *logrus.Logger,
) *InstallmentHandler {
	return &InstallmentHandler{
		installmentSvc:  installmentSvc,
		scoringSvc:      scoringSvc,
		installmentRepo: installmentRepo,
		log:             log,
	}
}

func (h *InstallmentHandler) identity(c *gin.Context) service.Identity {
	return service.Identity{
		UserID: middleware.GetUserID(c),
		Email:  middleware.GetEmail(c),
		Role:   c.GetString("role"),
	}
}

// Apply runs the eligibility gate and creates a new application.
func (h *InstallmentHandler) Apply(c *gin.Context) {
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	app, err := h.installmentSvc.Apply(h.identity(c), req.ProductID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Installment application submitted. Please wait for approval.",
		"installment_id": app.ID,
	})
}

// GetPlan returns the active approved plan with derived due-date labels.
func (h *InstallmentHandler) GetPlan(c *gin.Context) {
	plan, err := h.installmentRepo.ActivePlan(middleware.GetUserID(c))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "no active installment plan found"})
		return
	}
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product": gin.H{
			"name":  plan.Product.Name,
			"price": plan.Product.Price,
		},
		"installment_plan": gin.H{
			"initial_payment": gin.H{
				"amount":   plan.FirstPayment,
				"due_date": domain.DueLabelUpfront,
				"status":   plan.UpfrontPaymentStatus,
			},
			"second_installment": gin.H{
				"amount":   plan.SecondPayment,
				"due_date": domain.DueLabelSecond,
				"status":   plan.SecondPaymentStatus,
			},
			"final_installment": gin.H{
				"amount":   plan.ThirdPayment,
				"due_date": domain.DueLabelThird,
				"status":   plan.ThirdPaymentStatus,
			},
		},
	})
}

// GetHistory returns the employee's completed installments.
func (h *InstallmentHandler) GetHistory(c *gin.Context) {
	list, err := h.installmentRepo.ListByUserStatus(middleware.GetUserID(c), domain.StatusCompleted)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	if len(list) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "no completed installments found"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetRejected returns the employee's rejected applications.
func (h *InstallmentHandler) GetRejected(c *gin.Context) {
	list, err := h.installmentRepo.ListByUserStatus(middleware.GetUserID(c), domain.StatusRejected)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	if len(list) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "no rejected applications found"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// CheckEligibility promotes fully-paid plans then reports whether the
// employee may apply.
func (h *InstallmentHandler) CheckEligibility(c *gin.Context) {
	eligible, err := h.installmentSvc.CanApply(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_eligible": eligible})
}

// GetStatus promotes any fully-paid plan, then reports eligibility along
// with the employee's latest application status.
func (h *InstallmentHandler) GetStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	eligible, err := h.installmentSvc.CanApply(userID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	latest, err := h.installmentRepo.LatestByUser(userID)
	if err != nil {
		respondServiceError(c, h.log, mapNotFound(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"is_eligible":            eligible,
		"id":                     latest.ID,
		"status":                 latest.Status,
		"upfront_payment_status": latest.UpfrontPaymentStatus,
		"second_payment_status":  latest.SecondPaymentStatus,
		"third_payment_status":   latest.ThirdPaymentStatus,
	})
}

// GetScoreHistory returns the employee's score ledger, oldest first, with
// the display tier derived per entry.
func (h *InstallmentHandler) GetScoreHistory(c *gin.Context) {
	entries, err := h.scoringSvc.History(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		out = append(out, gin.H{
			"score":       e.Score,
			"tier":        domain.Tier(e.Score),
			"recorded_at": e.RecordedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// RecordScore recomputes and records today's score snapshot (no-op when
// one already exists).
func (h *InstallmentHandler) RecordScore(c *gin.Context) {
	score, recorded, err := h.scoringSvc.RecordScoreIfAbsentToday(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	if !recorded {
		c.JSON(http.StatusOK, gin.H{"message": "already recorded today", "score": score})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "score recorded", "score": score})
}
