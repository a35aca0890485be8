package models

import "time"

type Company struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	RiskCategory string    `gorm:"size:10;not null;default:'medium'" json:"risk_category"` // low | medium | high
	RiskScore    float64   `gorm:"default:0" json:"risk_score"`                            // cached 0-10 approval risk
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}
