package model

// AllModels lists every persisted type, parents before children.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&SearchHistory{},
		&FavoriteStock{},
		&StockPrediction{},
		&SystemParameter{},
	}
}
