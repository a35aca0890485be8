package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction records money movement against an installment application.
type Transaction struct {
	ID                       uint            `gorm:"primaryKey" json:"id"`
	InstallmentApplicationID uint            `gorm:"not null;index" json:"installment_application_id"`
	UserID                   uint            `gorm:"not null;index" json:"user_id"`
	Amount                   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentStatus            string          `gorm:"size:10;not null;default:'due'" json:"payment_status"` // due | paid | missed
	DueDate                  *time.Time      `json:"due_date"`
	PaidAt                   *time.Time      `json:"paid_at"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`

	Installment *InstallmentApplication `gorm:"foreignKey:InstallmentApplicationID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// PayrollDeduction marks a transaction as collected through payroll.
type PayrollDeduction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	TransactionID   uint      `gorm:"not null;index" json:"transaction_id"`
	DeductionStatus string    `gorm:"size:20;not null;default:'processed'" json:"deduction_status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (PayrollDeduction) TableName() string {
	return "payroll_deductions"
}

// PaymentReminder is an outbound nudge for an upcoming or overdue
// transaction.
type PaymentReminder struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID uint      `gorm:"not null;index" json:"transaction_id"`
	Status        string    `gorm:"size:20;not null;default:'sent'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (PaymentReminder) TableName() string {
	return "payment_reminders"
}
