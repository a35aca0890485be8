package repository

import (
	"hyvai/internal/models"

	"gorm.io/gorm"
)

type EscalationRepository struct {
	db *gorm.DB
}

func NewEscalationRepository(db *gorm.DB) *EscalationRepository {
	return &EscalationRepository{db: db}
}

func (r *EscalationRepository) Create(e *models.EscalationLog) error {
	return r.db.Create(e).Error
}

// ListByInstallment returns the escalation trail newest first.
func (r *EscalationRepository) ListByInstallment(installmentID uint) ([]models.EscalationLog, error) {
	var logs []models.EscalationLog
	err := r.db.Where("installment_id = ?", installmentID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
