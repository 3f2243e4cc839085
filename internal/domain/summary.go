package domain

// HotelSummary is the per-hotel rollup written by the sentiment pipeline.
// It is recomputed from scratch on every run.
type HotelSummary struct {
	HotelID          int64   `json:"hotel_id"`
	ReviewCount      int     `json:"review_count"`
	AverageRating    float64 `json:"average_rating"`
	AverageSentiment float64 `json:"average_sentiment"`
	PositiveRatio    float64 `json:"positive_ratio"`
}
