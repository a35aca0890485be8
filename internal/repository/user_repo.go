package repository

import (
	"hyvai/internal/domain"
	"hyvai/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.Preload("Company").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListWithCompany returns all users with their company attached, for the
// admin user table.
func (r *UserRepository) ListWithCompany() ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Company").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListAdminsExcept returns admin users other than the given email, i.e.
// the set an escalation may be assigned to.
func (r *UserRepository) ListAdminsExcept(email string) ([]models.User, error) {
	var admins []models.User
	err := r.db.Where("role = ? AND email <> ?", domain.RoleAdmin, email).Find(&admins).Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}

// UpdateProfile applies the super-admin user edit. The password hash is
// only touched when non-empty.
func (r *UserRepository) UpdateProfile(id uint, name, role, passwordHash string) error {
	updates := map[string]interface{}{"name": name, "role": role}
	if passwordHash != "" {
		updates["password_hash"] = passwordHash
	}
	res := r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CacheRiskScore persists the decision-time approval risk score onto the
// user row.
func (r *UserRepository) CacheRiskScore(userID uint, score float64) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("risk_score", score).Error
}
