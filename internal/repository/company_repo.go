package repository

import (
	"hyvai/internal/models"

	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(c *models.Company) error {
	return r.db.Create(c).Error
}

func (r *CompanyRepository) GetByID(id uint) (*models.Company, error) {
	var c models.Company
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) List() ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepository) UpdateRiskCategory(id uint, category string) error {
	res := r.db.Model(&models.Company{}).Where("id = ?", id).Update("risk_category", category)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CacheRiskScore persists the decision-time approval risk score onto the
// company row.
func (r *CompanyRepository) CacheRiskScore(id uint, score float64) error {
	return r.db.Model(&models.Company{}).Where("id = ?", id).Update("risk_score", score).Error
}
