package model

import (
	"math"
	"time"
)

type StockPrediction struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Ticker         string    `gorm:"type:varchar(10);not null;index" json:"ticker"`
	PredictionDate time.Time `gorm:"not null;index" json:"prediction_date"`
	TargetDate     time.Time `gorm:"not null" json:"target_date"`
	PredictedPrice float64   `gorm:"not null" json:"predicted_price"`
	ActualPrice    *float64  `json:"actual_price,omitempty"`
	Accuracy       *float64  `json:"accuracy,omitempty"`
}

func (StockPrediction) TableName() string {
	return "stock_predictions"
}

// CalculateAccuracy returns 100 - |predicted-actual|/predicted*100, or nil when predicted is not positive.
func CalculateAccuracy(predicted, actual float64) *float64 {
	if predicted <= 0 {
		return nil
	}
	accuracy := 100 - (math.Abs(predicted-actual) / predicted * 100)
	return &accuracy
}

// IsResolved reports whether the actual price has been back-filled.
func (p StockPrediction) IsResolved() bool {
	return p.ActualPrice != nil
}

type GetPredictionParam struct {
	Ticker *string
	Limit  int
}
