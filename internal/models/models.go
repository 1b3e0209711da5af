package models

// MarketQuery identifies one logical page of coin market data.
// Two logically identical requests must compare equal so that the
// key builder produces the same cache key for both.
type MarketQuery struct {
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
	Currency string `json:"currency"`
	Order    string `json:"order"`
}

// ChartQuery identifies one logical price-chart request.
type ChartQuery struct {
	CoinID   string `json:"coin_id"`
	Days     int    `json:"days"`
	Currency string `json:"currency"`
}

// Market is a single coin row as returned by the upstream markets endpoint.
type Market struct {
	ID               string  `json:"id"`
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	ImageURL         string  `json:"image"`
	CurrentPrice     float64 `json:"current_price"`
	MarketCap        float64 `json:"market_cap"`
	PercentChange24h float64 `json:"price_change_percentage_24h"`
}

// ChartPoint is one sample of a price chart.
type ChartPoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}
