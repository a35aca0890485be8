package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompanyAnalyticsRow aggregates paid tranche amounts per company.
type CompanyAnalyticsRow struct {
	CompanyID         uint            `json:"company_id"`
	CompanyName       string          `json:"company_name"`
	TotalInstallments int64           `json:"total_installments"`
	UpfrontPaid       decimal.Decimal `json:"upfront_paid"`
	SecondPaid        decimal.Decimal `json:"second_paid"`
	ThirdPaid         decimal.Decimal `json:"third_paid"`
}

// EmployeeAnalyticsRow aggregates paid tranche amounts per employee.
type EmployeeAnalyticsRow struct {
	UserID  uint            `json:"user_id"`
	Name    string          `json:"name"`
	Upfront decimal.Decimal `json:"upfront"`
	Second  decimal.Decimal `json:"second"`
	Third   decimal.Decimal `json:"third"`
}

// AnalyticsFilter narrows analytics queries; zero values mean no filter.
type AnalyticsFilter struct {
	CompanyID uint
	StartDate string
	EndDate   string
}

// ScoreStats summarizes the ledger across employees.
type ScoreStats struct {
	TotalEmployees int64   `json:"total_employees"`
	AvgScore       float64 `json:"avg_score"`
	MaxScore       int     `json:"max_score"`
	MinScore       int     `json:"min_score"`
}

// UserScore pairs a user with their latest recorded ledger score.
type UserScore struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	LatestScore int    `json:"latest_score"`
}

// InstallmentStats counts installments by outcome.
type InstallmentStats struct {
	Total          int64 `json:"total"`
	Approved       int64 `json:"approved"`
	Rejected       int64 `json:"rejected"`
	UpfrontPaid    int64 `json:"upfront_paid"`
	MissedPayments int64 `json:"missed_payments"`
}

// DashboardInsights is the admin overview payload.
type DashboardInsights struct {
	ScoreStats       ScoreStats       `json:"score_stats"`
	TopPerformers    []UserScore      `json:"top_performers"`
	RiskyUsers       []UserScore      `json:"risky_users"`
	DiscountEligible []UserScore      `json:"discount_eligible"`
	InstallmentStats InstallmentStats `json:"installment_stats"`
}

// MLFeatureRow is one per-user feature vector for the external risk
// predictor.
type MLFeatureRow struct {
	UserID         uint     `json:"user_id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	CompanyID      *uint    `json:"company_id"`
	CompanyName    *string  `json:"company_name"`
	RiskCategory   *string  `json:"risk_category"`
	ScoreCount     int64    `json:"score_count"`
	AvgScore       *float64 `json:"avg_score"`
	ScoreStddev    *float64 `json:"score_stddev"`
	MissedPayments int64    `json:"missed_payments"`
	OntimePayments int64    `json:"ontime_payments"`
	SpanDays       *int     `json:"span_days"`
}

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) CompanyAnalytics(f AnalyticsFilter) ([]CompanyAnalyticsRow, error) {
	q := `
		SELECT
			c.id AS company_id,
			c.name AS company_name,
			COUNT(i.id) AS total_installments,
			COALESCE(SUM(CASE WHEN i.upfront_payment_status = 'paid' THEN i.first_payment ELSE 0 END), 0) AS upfront_paid,
			COALESCE(SUM(CASE WHEN i.second_payment_status = 'paid' THEN i.second_payment ELSE 0 END), 0) AS second_paid,
			COALESCE(SUM(CASE WHEN i.third_payment_status = 'paid' THEN i.third_payment ELSE 0 END), 0) AS third_paid
		FROM installment_applications i
		JOIN users u ON i.user_id = u.id
		JOIN companies c ON u.company_id = c.id
		WHERE 1=1`
	args := []interface{}{}
	if f.CompanyID != 0 {
		q += " AND u.company_id = ?"
		args = append(args, f.CompanyID)
	}
	if f.StartDate != "" && f.EndDate != "" {
		q += " AND i.created_at BETWEEN ? AND ?"
		args = append(args, f.StartDate, f.EndDate)
	}
	q += " GROUP BY c.id, c.name"

	var rows []CompanyAnalyticsRow
	if err := r.db.Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) EmployeeAnalytics(f AnalyticsFilter) ([]EmployeeAnalyticsRow, error) {
	q := `
		SELECT
			u.id AS user_id,
			u.name,
			COALESCE(SUM(CASE WHEN i.upfront_payment_status = 'paid' THEN i.first_payment ELSE 0 END), 0) AS upfront,
			COALESCE(SUM(CASE WHEN i.second_payment_status = 'paid' THEN i.second_payment ELSE 0 END), 0) AS second,
			COALESCE(SUM(CASE WHEN i.third_payment_status = 'paid' THEN i.third_payment ELSE 0 END), 0) AS third
		FROM installment_applications i
		JOIN users u ON i.user_id = u.id
		WHERE 1=1`
	args := []interface{}{}
	if f.CompanyID != 0 {
		q += " AND u.company_id = ?"
		args = append(args, f.CompanyID)
	}
	if f.StartDate != "" && f.EndDate != "" {
		q += " AND i.created_at BETWEEN ? AND ?"
		args = append(args, f.StartDate, f.EndDate)
	}
	q += " GROUP BY u.id, u.name ORDER BY u.name ASC"

	var rows []EmployeeAnalyticsRow
	if err := r.db.Raw(q, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) Insights() (*DashboardInsights, error) {
	var out DashboardInsights

	err := r.db.Raw(`
		SELECT
			COUNT(DISTINCT u.id) AS total_employees,
			COALESCE(ROUND(AVG(sh.score), 2), 0) AS avg_score,
			COALESCE(MAX(sh.score), 0) AS max_score,
			COALESCE(MIN(sh.score), 0) AS min_score
		FROM users u
		JOIN score_history sh ON u.id = sh.user_id`).Scan(&out.ScoreStats).Error
	if err != nil {
		return nil, err
	}

	latest := `
		SELECT u.id, u.name, MAX(sh.score) AS latest_score
		FROM users u
		JOIN score_history sh ON u.id = sh.user_id
		GROUP BY u.id, u.name`

	if err := r.db.Raw(latest + " ORDER BY latest_score DESC LIMIT 5").Scan(&out.TopPerformers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Raw(latest + " HAVING latest_score < 30 ORDER BY latest_score ASC LIMIT 5").Scan(&out.RiskyUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Raw(latest + " HAVING latest_score >= 80").Scan(&out.DiscountEligible).Error; err != nil {
		return nil, err
	}

	err = r.db.Raw(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS approved,
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected,
			COALESCE(SUM(CASE WHEN upfront_payment_status = 'paid' THEN 1 ELSE 0 END), 0) AS upfront_paid,
			COALESCE(SUM(CASE WHEN second_payment_status = 'missed' OR third_payment_status = 'missed' THEN 1 ELSE 0 END), 0) AS missed_payments
		FROM installment_applications`).Scan(&out.InstallmentStats).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MLDataset builds the per-user feature rows handed to the external
// predictor.
func (r *AnalyticsRepository) MLDataset() ([]MLFeatureRow, error) {
	var rows []MLFeatureRow
	err := r.db.Raw(`
		SELECT
			u.id AS user_id,
			u.name,
			u.role,
			u.company_id,
			c.name AS company_name,
			c.risk_category,
			COUNT(DISTINCT s.id) AS score_count,
			AVG(s.score) AS avg_score,
			STDDEV(s.score) AS score_stddev,
			COALESCE(SUM(CASE WHEN i.second_payment_status = 'missed' THEN 1 ELSE 0 END), 0) +
			COALESCE(SUM(CASE WHEN i.third_payment_status = 'missed' THEN 1 ELSE 0 END), 0) AS missed_payments,
			COALESCE(SUM(CASE WHEN i.second_payment_status = 'paid' THEN 1 ELSE 0 END), 0) +
			COALESCE(SUM(CASE WHEN i.third_payment_status = 'paid' THEN 1 ELSE 0 END), 0) AS ontime_payments,
			TIMESTAMPDIFF(DAY, MIN(s.recorded_at), MAX(s.recorded_at)) AS span_days
		FROM users u
		LEFT JOIN companies c ON u.company_id = c.id
		LEFT JOIN score_history s ON u.id = s.user_id
		LEFT JOIN installment_applications i ON u.id = i.user_id
		GROUP BY u.id, u.name, u.role, u.company_id, c.name, c.risk_category`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
