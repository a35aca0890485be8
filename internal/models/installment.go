package models

import (
	"time"

	"hyvai/internal/domain"

	"github.com/shopspring/decimal"
)

// InstallmentApplication is one employee's request-and-plan to buy a
// product on deferred terms. The three tranche amounts are fixed at apply
// time from the product price (60/25/15) and never re-derived.
type InstallmentApplication struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	UserID     uint  `gorm:"not null;index" json:"user_id"`
	ProductID  uint  `gorm:"not null;index" json:"product_id"`
	ApprovedBy *uint `json:"approved_by"`

	FirstPayment  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"first_payment"`
	SecondPayment decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"second_payment"`
	ThirdPayment  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"third_payment"`

	UpfrontPaymentStatus string `gorm:"size:10;not null;default:'pending'" json:"upfront_payment_status"`
	SecondPaymentStatus  string `gorm:"size:10;not null;default:'due'" json:"second_payment_status"`
	ThirdPaymentStatus   string `gorm:"size:10;not null;default:'due'" json:"third_payment_status"`

	Status string `gorm:"size:12;not null;default:'pending';index" json:"status"`

	// Set exactly once, when the upfront tranche transitions to paid.
	// Anchors the 30/60 day due dates for the later tranches.
	UpfrontPaymentDate *time.Time `json:"upfront_payment_date"`
	RejectionReason    string     `gorm:"size:512" json:"rejection_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (InstallmentApplication) TableName() string {
	return "installment_applications"
}

// TrancheState extracts the status portion for the transition logic.
func (i *InstallmentApplication) TrancheState() domain.TrancheState {
	return domain.TrancheState{
		Status:  i.Status,
		Upfront: i.UpfrontPaymentStatus,
		Second:  i.SecondPaymentStatus,
		Third:   i.ThirdPaymentStatus,
	}
}

// SetTrancheState writes a transition result back onto the row.
func (i *InstallmentApplication) SetTrancheState(s domain.TrancheState) {
	i.Status = s.Status
	i.UpfrontPaymentStatus = s.Upfront
	i.SecondPaymentStatus = s.Second
	i.ThirdPaymentStatus = s.Third
}
