package domain

import "time"

type Review struct {
	ID         int64      `json:"id"`
	PropertyID int64      `json:"property_id"`
	SourceID   *string    `json:"source_id,omitempty"`
	Author     *string    `json:"author,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
	Lang       *string    `json:"lang,omitempty"` // explicit tag from upstream, may be absent
	Title      *string    `json:"title,omitempty"`
	Text       *string    `json:"text,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	Sentiment  *float64   `json:"sentiment_score,omitempty"` // derived; set once per pipeline run
}

// ScoreUpdate is one row of the score sink.
type ScoreUpdate struct {
	ReviewID   int64   `json:"review_id"`
	PropertyID int64   `json:"property_id"`
	Score      float64 `json:"sentiment_score"`
}
