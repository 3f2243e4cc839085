package mysql

// Note: `text` is reserved; keep it quoted everywhere.
const selectReviewsSQL = "SELECT id, property_id, source_id, author, rating, lang, title, `text`, created_at, sentiment_score\nFROM reviews\n"

const upsertScoresPrefix = "INSERT INTO reviews (id, property_id, sentiment_score)\nVALUES "

// Only the pipeline-owned column is touched on existing rows.
const upsertScoresOnDup = "\nON DUPLICATE KEY UPDATE\n  sentiment_score = VALUES(sentiment_score)"

const upsertSummariesPrefix = "INSERT INTO hotel_metrics\n  (hotel_id, review_count, average_rating, average_sentiment, positive_ratio)\nVALUES "

const upsertSummariesOnDup = "\nON DUPLICATE KEY UPDATE\n" +
	"  review_count      = VALUES(review_count),\n" +
	"  average_rating    = VALUES(average_rating),\n" +
	"  average_sentiment = VALUES(average_sentiment),\n" +
	"  positive_ratio    = VALUES(positive_ratio)"

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getSummarySQL = `
SELECT hotel_id, review_count, average_rating, average_sentiment, positive_ratio
FROM hotel_metrics
WHERE hotel_id = ?
`

const listReviewsSQL = selectReviewsSQL + `WHERE property_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`
