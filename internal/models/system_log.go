package models

import "time"

// SystemLog is the append-only audit trail of administrative actions.
type SystemLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AdminID     uint      `gorm:"not null;index" json:"admin_id"`
	Action      string    `gorm:"size:255;not null" json:"action"`
	Module      string    `gorm:"size:64;not null" json:"module"`
	Description string    `gorm:"size:512" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Admin *User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}
