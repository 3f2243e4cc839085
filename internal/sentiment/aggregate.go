package sentiment

import (
	"sort"

	"hotel_sentiment/internal/domain"
)

type acc struct {
	count         int
	ratingSum     float64
	ratings       int
	sentimentSum  float64
	sentiments    int
	positiveCount int
}

// Aggregate groups reviews by hotel and computes count, mean rating, mean
// sentiment and positive ratio. Missing ratings and scores are left out of
// their means but still count as reviews. Hotels without reviews are absent.
func Aggregate(reviews []domain.Review) map[int64]domain.HotelSummary {
	groups := make(map[int64]*acc)
	for _, rv := range reviews {
		a := groups[rv.PropertyID]
		if a == nil {
			a = &acc{}
			groups[rv.PropertyID] = a
		}
		a.count++
		if rv.Rating != nil {
			a.ratingSum += *rv.Rating
			a.ratings++
		}
		if rv.Sentiment != nil {
			a.sentimentSum += *rv.Sentiment
			a.sentiments++
			if *rv.Sentiment > PositiveThreshold {
				a.positiveCount++
			}
		}
	}

	out := make(map[int64]domain.HotelSummary, len(groups))
	for id, a := range groups {
		s := domain.HotelSummary{HotelID: id, ReviewCount: a.count}
		if a.ratings > 0 {
			s.AverageRating = a.ratingSum / float64(a.ratings)
		}
		if a.sentiments > 0 {
			s.AverageSentiment = a.sentimentSum / float64(a.sentiments)
		}
		if a.count > 0 {
			s.PositiveRatio = float64(a.positiveCount) / float64(a.count)
		}
		out[id] = s
	}
	return out
}

// SortedSummaries flattens an Aggregate result ordered by hotel ID.
func SortedSummaries(m map[int64]domain.HotelSummary) []domain.HotelSummary {
	out := make([]domain.HotelSummary, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HotelID < out[j].HotelID })
	return out
}
