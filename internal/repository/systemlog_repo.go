package repository

import (
	"hyvai/internal/models"

	"gorm.io/gorm"
)

type SystemLogRepository struct {
	db *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) *SystemLogRepository {
	return &SystemLogRepository{db: db}
}

func (r *SystemLogRepository) Create(l *models.SystemLog) error {
	return r.db.Create(l).Error
}

// ListRecent returns the latest audit entries with the acting admin
// attached, newest first.
func (r *SystemLogRepository) ListRecent(limit int) ([]models.SystemLog, error) {
	var logs []models.SystemLog
	err := r.db.Preload("Admin").Order("created_at DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
