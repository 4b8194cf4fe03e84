package model

import "time"

// FavoriteStock is unique per (user_id, ticker) by repository logic only; the index is not unique.
type FavoriteStock struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"not null;index:idx_favorite_stocks_user_ticker,priority:1" json:"user_id"`
	Ticker  string    `gorm:"type:varchar(10);not null;index:idx_favorite_stocks_user_ticker,priority:2" json:"ticker"`
	AddedAt time.Time `gorm:"not null" json:"added_at"`
	Notes   *string   `gorm:"type:varchar(255)" json:"notes,omitempty"`
	User    *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (FavoriteStock) TableName() string {
	return "favorite_stocks"
}
