package handler

import (
	"errors"
	"net/http"
	"time"

	"hyvai/internal/middleware"
	"hyvai/internal/models"
	"hyvai/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PaymentHandler serves transactions, payroll deductions and reminders.
type PaymentHandler struct {
	txRepo *repository.TransactionRepository
	log    *logrus.Logger
}

func NewPaymentHandler(txRepo *repository.TransactionRepository, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{txRepo: txRepo, log: log}
}

// CreateTransaction records a payment expectation against an installment.
func (h *PaymentHandler) CreateTransaction(c *gin.Context) {
	var req struct {
		InstallmentApplicationID uint            `json:"installment_application_id" binding:"required"`
		Amount                   decimal.Decimal `json:"amount" binding:"required"`
		DueDate                  *time.Time      `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	t := &models.Transaction{
		InstallmentApplicationID: req.InstallmentApplicationID,
		UserID:                   middleware.GetUserID(c),
		Amount:                   req.Amount,
		DueDate:                  req.DueDate,
	}
	if err := h.txRepo.Create(t); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "transaction created", "transaction": t})
}

// ListTransactions returns the employee's own transactions.
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	list, err := h.txRepo.ListByUser(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ProcessPayrollDeduction marks a transaction collected through payroll.
// The deduction record and the transaction update commit together.
func (h *PaymentHandler) ProcessPayrollDeduction(c *gin.Context) {
	var req struct {
		TransactionID uint `json:"transaction_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	err := h.txRepo.ProcessPayrollDeduction(middleware.GetUserID(c), req.TransactionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "transaction not found"})
		return
	}
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payroll deduction processed"})
}

// SendReminder records an outbound payment reminder.
func (h *PaymentHandler) SendReminder(c *gin.Context) {
	var req struct {
		TransactionID uint `json:"transaction_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := h.txRepo.CreateReminder(req.TransactionID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment reminder sent"})
}
