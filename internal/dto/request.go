package dto

import "time"

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
}

type SessionResponse struct {
	Authenticated bool      `json:"authenticated"`
	UserID        *uint     `json:"user_id,omitempty"`
	Username      string    `json:"username,omitempty"`
	CurrentTicker string    `json:"current_ticker,omitempty"`
	StartedAt     time.Time `json:"started_at"`
}

type FavoriteRequest struct {
	Ticker string  `json:"ticker" validate:"required,max=10"`
	Notes  *string `json:"notes" validate:"omitempty,max=255"`
}

type ToggleFavoriteResponse struct {
	Ticker     string `json:"ticker"`
	IsFavorite bool   `json:"is_favorite"`
}

type CreatePredictionRequest struct {
	Ticker         string   `json:"ticker" validate:"required,max=10"`
	TargetDate     string   `json:"target_date" validate:"required,datetime=2006-01-02"`
	PredictedPrice *float64 `json:"predicted_price" validate:"required"`
}

type UpdatePredictionActualRequest struct {
	ActualPrice *float64 `json:"actual_price" validate:"required"`
}

type GetPredictionsQuery struct {
	Ticker string `query:"ticker" validate:"omitempty,max=10"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type ChartQuery struct {
	Period string `query:"period"`
}
