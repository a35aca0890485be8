package repository

import (
	"time"

	"hyvai/internal/models"

	"gorm.io/gorm"
)

type ScoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// ExistsForDay is the fast-path check for the once-per-day rule. The
// unique index on (user_id, recorded_on) remains the authoritative guard.
func (r *ScoreRepository) ExistsForDay(userID uint, day time.Time) (bool, error) {
	var n int64
	err := r.db.Model(&models.ScoreHistory{}).
		Where("user_id = ? AND recorded_on = ?", userID, day.Format("2006-01-02")).
		Count(&n).Error
	return n > 0, err
}

// Insert appends a ledger entry. Returns gorm.ErrDuplicatedKey when an
// entry for the same (user, day) already exists.
func (r *ScoreRepository) Insert(entry *models.ScoreHistory) error {
	return r.db.Create(entry).Error
}

// ListByUser returns the user's score history oldest first, the order the
// score graph expects.
func (r *ScoreRepository) ListByUser(userID uint) ([]models.ScoreHistory, error) {
	var entries []models.ScoreHistory
	err := r.db.Where("user_id = ?", userID).Order("recorded_on ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
