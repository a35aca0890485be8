package models

import "time"

// EscalationLog is an append-only collection-escalation record tied to an
// installment. No update or delete operation exists.
type EscalationLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InstallmentID uint      `gorm:"not null;index" json:"installment_id"`
	AssignedTo    uint      `gorm:"not null" json:"assigned_to"`
	Method        string    `gorm:"size:10;not null" json:"method"` // call | visit | whatsapp | email
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedBy     uint      `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (EscalationLog) TableName() string {
	return "escalation_logs"
}
