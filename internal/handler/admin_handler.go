package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"hyvai/internal/middleware"
	"hyvai/internal/models"
	"hyvai/internal/repository"
	"hyvai/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler serves the admin-side portal: companies, users, the
// installment table, decisions and analytics.
type AdminHandler struct {
	installmentSvc  *service.InstallmentService
	auditSvc        *service.AuditService
	companyRepo     *repository.CompanyRepository
	userRepo        *repository.UserRepository
	installmentRepo *repository.InstallmentRepository
	analyticsRepo   *repository.AnalyticsRepository
	superAdminEmail string
	log             *logrus.Logger
}

func NewAdminHandler(
	installmentSvc *service.InstallmentService,
	auditSvc *service.AuditService,
	companyRepo *repository.CompanyRepository,
	userRepo *repository.UserRepository,
	installmentRepo *repository.InstallmentRepository,
	analyticsRepo *repository.AnalyticsRepository,
	superAdminEmail string,
	log *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		installmentSvc:  installmentSvc,
		auditSvc:        auditSvc,
		companyRepo:     companyRepo,
		userRepo:        userRepo,
		installmentRepo: installmentRepo,
		analyticsRepo:   analyticsRepo,
		superAdminEmail: superAdminEmail,
		log:             log,
	}
}

func (h *AdminHandler) identity(c *gin.Context) service.Identity {
	return service.Identity{
		UserID: middleware.GetUserID(c),
		Email:  middleware.GetEmail(c),
		Role:   c.GetString("role"),
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// ---- companies ----

func (h *AdminHandler) ListCompanies(c *gin.Context) {
	companies, err := h.companyRepo.List()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Viewed all companies", "Companies", "Fetched list of all companies and risk ratings")
	c.JSON(http.StatusOK, companies)
}

func (h *AdminHandler) CreateCompany(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		RiskCategory string `json:"risk_category" binding:"required,riskcategory"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid company data"})
		return
	}
	company := &models.Company{Name: req.Name, RiskCategory: req.RiskCategory}
	if err := h.companyRepo.Create(company); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Created new company", "Companies",
		fmt.Sprintf("Company %q with risk: %s", req.Name, req.RiskCategory))
	c.JSON(http.StatusCreated, gin.H{"message": "company added", "company": company})
}

func (h *AdminHandler) UpdateCompanyRisk(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		RiskCategory string `json:"risk_category" binding:"required,riskcategory"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid risk category"})
		return
	}
	if err := h.companyRepo.UpdateRiskCategory(id, req.RiskCategory); err != nil {
		respondServiceError(c, h.log, mapNotFound(err))
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Updated company risk", "Companies",
		fmt.Sprintf("Company ID %d updated to risk: %s", id, req.RiskCategory))
	c.JSON(http.StatusOK, gin.H{"message": "company risk updated to " + req.RiskCategory})
}

// ---- users ----

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.ListWithCompany()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Viewed all users", "Users", "Fetched all user records with associated company data")
	c.JSON(http.StatusOK, users)
}

// ---- installments ----

func (h *AdminHandler) ListInstallments(c *gin.Context) {
	list, err := h.installmentRepo.ListAll()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Fetched all installments", "Installments", "Full list of installments including user & product info")
	c.JSON(http.StatusOK, list)
}

// UpdateInstallment is the general admin edit of status and tranche
// statuses; the state machine enforces rejection reset, upfront re-arm
// and derived completion.
func (h *AdminHandler) UpdateInstallment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status               *string `json:"status" binding:"omitempty,installmentstatus"`
		UpfrontPaymentStatus *string `json:"upfront_payment_status" binding:"omitempty,tranchestatus"`
		SecondPaymentStatus  *string `json:"second_payment_status" binding:"omitempty,tranchestatus"`
		ThirdPaymentStatus   *string `json:"third_payment_status" binding:"omitempty,tranchestatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	updated, err := h.installmentSvc.AdminUpdate(h.identity(c), id, service.UpdateRequest{
		Status:  req.Status,
		Upfront: req.UpfrontPaymentStatus,
		Second:  req.SecondPaymentStatus,
		Third:   req.ThirdPaymentStatus,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Updated installment", "Installments",
		fmt.Sprintf("Installment %d updated with new status: %s", id, updated.Status))
	c.JSON(http.StatusOK, gin.H{"message": "installment updated", "installment": updated})
}

// DecideInstallment approves or rejects a pending application with risk
// gating.
func (h *AdminHandler) DecideInstallment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status          string `json:"status" binding:"required"`
		RejectionReason string `json:"rejection_reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	decided, err := h.installmentSvc.Decide(h.identity(c), id, req.Status, req.RejectionReason)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Installment "+decided.Status, "Installments",
		fmt.Sprintf("Installment ID %d marked as %s", id, decided.Status))
	c.JSON(http.StatusOK, gin.H{"message": "installment " + decided.Status})
}

// ---- analytics ----

func analyticsFilter(c *gin.Context) repository.AnalyticsFilter {
	var f repository.AnalyticsFilter
	if v, err := strconv.ParseUint(c.Query("company_id"), 10, 32); err == nil {
		f.CompanyID = uint(v)
	}
	f.StartDate = c.Query("start_date")
	f.EndDate = c.Query("end_date")
	return f
}

func (h *AdminHandler) CompanyAnalytics(c *gin.Context) {
	rows, err := h.analyticsRepo.CompanyAnalytics(analyticsFilter(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Viewed company analytics", "Analytics", "Fetched data on payment performance per company")
	c.JSON(http.StatusOK, rows)
}

func (h *AdminHandler) EmployeeAnalytics(c *gin.Context) {
	rows, err := h.analyticsRepo.EmployeeAnalytics(analyticsFilter(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Viewed employee analytics", "Analytics", "Aggregated installment totals by employee")
	c.JSON(http.StatusOK, rows)
}

func (h *AdminHandler) DashboardInsights(c *gin.Context) {
	insights, err := h.analyticsRepo.Insights()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	h.auditSvc.Record(middleware.GetUserID(c), "Viewed dashboard insights", "Dashboard", "Summary view of employee performance and installment stats")
	c.JSON(http.StatusOK, insights)
}

// ---- super-admin only ----

func (h *AdminHandler) requireSuperAdmin(c *gin.Context) bool {
	if middleware.GetEmail(c) != h.superAdminEmail {
		c.JSON(http.StatusForbidden, gin.H{"message": "access denied"})
		return false
	}
	return true
}

func (h *AdminHandler) GetAdminLogs(c *gin.Context) {
	if !h.requireSuperAdmin(c) {
		return
	}
	logs, err := h.auditSvc.Recent(100)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AdminHandler) ListAllUsers(c *gin.Context) {
	if !h.requireSuperAdmin(c) {
		return
	}
	users, err := h.userRepo.ListWithCompany()
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	if !h.requireSuperAdmin(c) {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name     string `json:"name" binding:"required"`
		Role     string `json:"role" binding:"required,oneof=employee admin"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	var hash string
	if req.Password != "" {
		if len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "password must be at least 6 characters"})
			return
		}
		b, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			respondServiceError(c, h.log, err)
			return
		}
		hash = string(b)
	}
	if err := h.userRepo.UpdateProfile(id, req.Name, req.Role, hash); err != nil {
		respondServiceError(c, h.log, mapNotFound(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}
