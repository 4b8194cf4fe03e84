package model

import "time"

// SearchHistory rows are append-only.
type SearchHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_search_history_user_ts,priority:1" json:"user_id"`
	Ticker    string    `gorm:"type:varchar(10);not null" json:"ticker"`
	Timestamp time.Time `gorm:"not null;index:idx_search_history_user_ts,priority:2" json:"timestamp"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SearchHistory) TableName() string {
	return "search_history"
}
