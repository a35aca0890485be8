package repository

import (
	"time"

	"hyvai/internal/domain"
	"hyvai/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InstallmentRepository struct {
	db *gorm.DB
}

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) Create(i *models.InstallmentApplication) error {
	return r.db.Create(i).Error
}

func (r *InstallmentRepository) GetByID(id uint) (*models.InstallmentApplication, error) {
	var i models.InstallmentApplication
	if err := r.db.First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

// PromoteCompleted flips any of the user's installments whose three
// tranches are all paid to completed. Idempotent; run before every
// eligibility evaluation (side-effecting read, made explicit).
func (r *InstallmentRepository) PromoteCompleted(userID uint) error {
	return r.db.Model(&models.InstallmentApplication{}).
		Where("user_id = ? AND upfront_payment_status = ? AND second_payment_status = ? AND third_payment_status = ?",
			userID, domain.TranchePaid, domain.TranchePaid, domain.TranchePaid).
		Update("status", domain.StatusCompleted).Error
}

// CountActive counts the user's installments that are not completed. A
// user may hold at most one.
func (r *InstallmentRepository) CountActive(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.InstallmentApplication{}).
		Where("user_id = ? AND status <> ?", userID, domain.StatusCompleted).
		Count(&n).Error
	return n, err
}

// ActivePlan returns the user's approved, not fully paid installment with
// its product, or gorm.ErrRecordNotFound.
func (r *InstallmentRepository) ActivePlan(userID uint) (*models.InstallmentApplication, error) {
	var i models.InstallmentApplication
	err := r.db.Preload("Product").
		Where("user_id = ? AND status = ?", userID, domain.StatusApproved).
		Where("upfront_payment_status <> ? OR second_payment_status <> ? OR third_payment_status <> ?",
			domain.TranchePaid, domain.TranchePaid, domain.TranchePaid).
		First(&i).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// LatestByUser returns the user's most recent application regardless of
// status.
func (r *InstallmentRepository) LatestByUser(userID uint) (*models.InstallmentApplication, error) {
	var i models.InstallmentApplication
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&i).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ListByUserStatus returns the user's installments with the given status,
// most recently updated first, products attached.
func (r *InstallmentRepository) ListByUserStatus(userID uint, status string) ([]models.InstallmentApplication, error) {
	var list []models.InstallmentApplication
	err := r.db.Preload("Product").
		Where("user_id = ? AND status = ?", userID, status).
		Order("updated_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListAll returns every installment with user, company and product
// attached, for the admin table.
func (r *InstallmentRepository) ListAll() ([]models.InstallmentApplication, error) {
	var list []models.InstallmentApplication
	err := r.db.Preload("User").Preload("User.Company").Preload("Product").
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CompletedOutcomes returns the second/third tranche outcomes of the
// user's completed installments, the input to the ledger score.
func (r *InstallmentRepository) CompletedOutcomes(userID uint) ([]domain.CompletedOutcome, error) {
	var rows []struct {
		SecondPaymentStatus string
		ThirdPaymentStatus  string
	}
	err := r.db.Model(&models.InstallmentApplication{}).
		Select("second_payment_status", "third_payment_status").
		Where("user_id = ? AND status = ?", userID, domain.StatusCompleted).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.CompletedOutcome, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CompletedOutcome{
			Second: row.SecondPaymentStatus,
			Third:  row.ThirdPaymentStatus,
		})
	}
	return out, nil
}

// CountRejectedByUser counts the user's historically rejected
// applications.
func (r *InstallmentRepository) CountRejectedByUser(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.InstallmentApplication{}).
		Where("user_id = ? AND status = ?", userID, domain.StatusRejected).
		Count(&n).Error
	return n, err
}

// CountRejectedByCompany counts rejected applications across a company's
// employees.
func (r *InstallmentRepository) CountRejectedByCompany(companyID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.InstallmentApplication{}).
		Where("status = ? AND user_id IN (?)", domain.StatusRejected,
			r.db.Model(&models.User{}).Select("id").Where("company_id = ?", companyID)).
		Count(&n).Error
	return n, err
}

// UpdateLocked runs fn against the row under SELECT ... FOR UPDATE inside
// a transaction, then persists the (possibly mutated) row. Two concurrent
// updates to the same installment serialize here, so the read-modify-write
// of tranche statuses and the derived-completion check are atomic.
func (r *InstallmentRepository) UpdateLocked(id uint, fn func(tx *gorm.DB, row *models.InstallmentApplication) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var row models.InstallmentApplication
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error; err != nil {
			return err
		}
		if err := fn(tx, &row); err != nil {
			return err
		}
		return tx.Save(&row).Error
	})
}

// SweepOverdue marks later tranches missed when their due date plus grace
// has passed without payment. Only approved plans with a recorded upfront
// date participate. Returns the number of tranches flipped.
func (r *InstallmentRepository) SweepOverdue(now time.Time, graceDays int) (int64, error) {
	secondCutoff := now.AddDate(0, 0, -(domain.SecondDueDays + graceDays))
	thirdCutoff := now.AddDate(0, 0, -(domain.ThirdDueDays + graceDays))

	res := r.db.Model(&models.InstallmentApplication{}).
		Where("status = ? AND second_payment_status = ? AND upfront_payment_date IS NOT NULL AND upfront_payment_date < ?",
			domain.StatusApproved, domain.TrancheDue, secondCutoff).
		Update("second_payment_status", domain.TrancheMissed)
	if res.Error != nil {
		return 0, res.Error
	}
	flipped := res.RowsAffected

	res = r.db.Model(&models.InstallmentApplication{}).
		Where("status = ? AND third_payment_status = ? AND upfront_payment_date IS NOT NULL AND upfront_payment_date < ?",
			domain.StatusApproved, domain.TrancheDue, thirdCutoff).
		Update("third_payment_status", domain.TrancheMissed)
	if res.Error != nil {
		return flipped, res.Error
	}
	return flipped + res.RowsAffected, nil
}
