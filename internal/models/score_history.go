package models

import "time"

// ScoreHistory is the append-only per-user score ledger. At most one entry
// per (user, calendar day): the composite unique index is the
// authoritative guard against same-day double writes, the service-level
// existence check is only a fast path.
type ScoreHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_score_user_day" json:"user_id"`
	Score      int       `gorm:"not null" json:"score"`
	RecordedOn time.Time `gorm:"type:date;not null;uniqueIndex:idx_score_user_day" json:"recorded_on"`
	RecordedAt time.Time `gorm:"autoCreateTime" json:"recorded_at"`
}

func (ScoreHistory) TableName() string {
	return "score_history"
}
