package repository

import (
	"time"

	"hyvai/internal/domain"
	"hyvai/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(t *models.Transaction) error {
	return r.db.Create(t).Error
}

func (r *TransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) ListByUser(userID uint) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SumPaidForInstallment totals the paid transactions against one
// installment; the Decide operation compares this to the upfront
// requirement.
func (r *TransactionRepository) SumPaidForInstallment(installmentID uint) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := r.db.Model(&models.Transaction{}).
		Select("SUM(amount) AS total").
		Where("installment_application_id = ? AND payment_status = ?", installmentID, domain.PaymentPaid).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal, nil
}

// CountByUserStatus counts the user's transactions in a given payment
// status, feeding the approval risk formula.
func (r *TransactionRepository) CountByUserStatus(userID uint, status string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND payment_status = ?", userID, status).
		Count(&n).Error
	return n, err
}

// ProcessPayrollDeduction records the deduction and marks the transaction
// paid in one transaction; no partial state survives a failure.
func (r *TransactionRepository) ProcessPayrollDeduction(userID, transactionID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		if err := tx.First(&t, transactionID).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.PayrollDeduction{
			UserID:        userID,
			TransactionID: transactionID,
		}).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&t).Updates(map[string]interface{}{
			"payment_status": domain.PaymentPaid,
			"paid_at":        now,
		}).Error
	})
}

func (r *TransactionRepository) CreateReminder(transactionID uint) error {
	return r.db.Create(&models.PaymentReminder{TransactionID: transactionID}).Error
}

// ListDueSoon returns unpaid transactions falling due within the window,
// for the reminder job.
func (r *TransactionRepository) ListDueSoon(now time.Time, withinDays int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.Where("payment_status = ? AND due_date IS NOT NULL AND due_date BETWEEN ? AND ?",
		domain.PaymentDue, now, now.AddDate(0, 0, withinDays)).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
