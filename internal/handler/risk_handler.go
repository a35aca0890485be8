package handler

import (
	"net/http"
	"strconv"

	"hyvai/internal/domain"
	"hyvai/internal/middleware"
	"hyvai/internal/repository"
	"hyvai/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RiskHandler serves the collection-risk dashboard and the escalation
// trail.
type RiskHandler struct {
	escalationSvc   *service.EscalationService
	riskRepo        *repository.RiskRepository
	userRepo        *repository.UserRepository
	superAdminEmail string
	log             *logrus.Logger
}

func NewRiskHandler(
	escalationSvc *service.EscalationService,
	riskRepo *repository.RiskRepository,
	userRepo *repository.UserRepository,
	superAdminEmail string,
	log *logrus.Logger,
) *RiskHandler {
	return &RiskHandler{
		escalationSvc:   escalationSvc,
		riskRepo:        riskRepo,
		userRepo:        userRepo,
		superAdminEmail: superAdminEmail,
		log:             log,
	}
}

// Overview returns portfolio-level counters for the dashboard.
func (h *RiskHandler) Overview(c *gin.Context) {
	o, err := h.riskRepo.Overview()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// ListRisky returns approved installments with a derived risk level,
// optionally filtered by company.
func (h *RiskHandler) ListRisky(c *gin.Context) {
	var companyID uint
	if v, err := strconv.ParseUint(c.Query("company_id"), 10, 32); err == nil {
		companyID = uint(v)
	}
	rows, err := h.riskRepo.ListApproved(companyID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	for i := range rows {
		rows[i].RiskLevel = domain.ClassifyRisk(rows[i].MissedCount, rows[i].DaysSinceUpfront)
	}
	c.JSON(http.StatusOK, rows)
}

// CreateEscalation appends a collection escalation. The service refuses
// any caller except the designated super admin.
func (h *RiskHandler) CreateEscalation(c *gin.Context) {
	var req struct {
		InstallmentID uint   `json:"installment_id" binding:"required"`
		AssignedTo    uint   `json:"assigned_to" binding:"required"`
		Method        string `json:"method" binding:"required,contactmethod"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	creator := service.Identity{
		UserID: middleware.GetUserID(c),
		Email:  middleware.GetEmail(c),
		Role:   c.GetString("role"),
	}
	entry, err := h.escalationSvc.Create(creator, req.InstallmentID, req.AssignedTo, req.Method, req.Notes)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "escalation saved", "escalation": entry})
}

// ListEscalations returns the escalation trail for one installment,
// newest first.
func (h *RiskHandler) ListEscalations(c *gin.Context) {
	id, ok := pathID(c, "installment_id")
	if !ok {
		return
	}
	logs, err := h.escalationSvc.List(id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// ListAssignableAdmins returns the admins an escalation may be assigned
// to (everyone except the super admin).
func (h *RiskHandler) ListAssignableAdmins(c *gin.Context) {
	admins, err := h.userRepo.ListAdminsExcept(h.superAdminEmail)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	out := make([]gin.H, 0, len(admins))
	for _, a := range admins {
		out = append(out, gin.H{"id": a.ID, "name": a.Name})
	}
	c.JSON(http.StatusOK, out)
}

// Me returns the authenticated caller's profile.
func (h *RiskHandler) Me(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, h.log, mapNotFound(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role})
}
