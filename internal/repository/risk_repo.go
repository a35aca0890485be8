package repository

import (
	"gorm.io/gorm"
)

// RiskOverview summarizes portfolio health for the risk dashboard.
type RiskOverview struct {
	Total        int64 `json:"total"`
	RiskyCount   int64 `json:"risky_count"`
	UpcomingDues int64 `json:"upcoming_dues"`
}

// RiskyInstallment is an approved installment enriched with collection
// signals. RiskLevel is derived on read, never stored.
type RiskyInstallment struct {
	ID                   uint   `json:"id"`
	UserID               uint   `json:"user_id"`
	UserName             string `json:"user_name"`
	Phone                string `json:"phone"`
	CompanyName          string `json:"company_name"`
	Status               string `json:"status"`
	UpfrontPaymentStatus string `json:"upfront_payment_status"`
	SecondPaymentStatus  string `json:"second_payment_status"`
	ThirdPaymentStatus   string `json:"third_payment_status"`
	DaysSinceUpfront     int    `json:"days_since_upfront"`
	MissedCount          int    `json:"missed_count"`
	RiskLevel            string `json:"risk_level" gorm:"-"`
}

type RiskRepository struct {
	db *gorm.DB
}

func NewRiskRepository(db *gorm.DB) *RiskRepository {
	return &RiskRepository{db: db}
}

// Overview counts total installments, those with any missed tranche, and
// approved plans inside the 25-30 / 55-60 day due windows.
func (r *RiskRepository) Overview() (*RiskOverview, error) {
	var o RiskOverview
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN upfront_payment_status = 'missed'
				OR second_payment_status = 'missed'
				OR third_payment_status = 'missed' THEN 1 ELSE 0 END), 0) AS risky_count,
			COALESCE(SUM(CASE WHEN status = 'approved' AND (
				DATEDIFF(NOW(), upfront_payment_date) BETWEEN 25 AND 30 OR
				DATEDIFF(NOW(), upfront_payment_date) BETWEEN 55 AND 60
			) THEN 1 ELSE 0 END), 0) AS upcoming_dues
		FROM installment_applications`).Scan(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListApproved returns approved installments with collection signals,
// optionally filtered to one company.
func (r *RiskRepository) ListApproved(companyID uint) ([]RiskyInstallment, error) {
	q := `
		SELECT
			i.id, i.user_id, u.name AS user_name, u.phone,
			c.name AS company_name,
			i.status, i.upfront_payment_status, i.second_payment_status, i.third_payment_status,
			COALESCE(DATEDIFF(NOW(), i.upfront_payment_date), 0) AS days_since_upfront,
			(
				(i.upfront_payment_status = 'missed') +
				(i.second_payment_status = 'missed') +
				(i.third_payment_status = 'missed')
			) AS missed_count
		FROM installment_applications i
		JOIN users u ON i.user_id = u.id
		JOIN companies c ON u.company_id = c.id
		WHERE i.status = 'approved'`

	var rows []RiskyInstallment
	var err error
	if companyID != 0 {
		err = r.db.Raw(q+" AND c.id = ?", companyID).Scan(&rows).Error
	} else {
		err = r.db.Raw(q).Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}
