package jsonl

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_sentiment/internal/domain"
)

/********** alias registries (single source of truth) **********/

var reviewAliases = map[string][]string{
	"id":           {"id", "review_id", "reviewId"},
	"property_id":  {"property_id", "propertyId", "hotel_id", "hotelId", "hotel.id"},
	"author":       {"author", "name", "userName", "reviewer", "reviewer.name"},
	"author_first": {"first_name", "firstname", "user.first_name", "user.firstName"},
	"author_last":  {"last_name", "lastname", "user.last_name", "user.lastName"},
	"title":        {"title", "review_title", "headline"},
	"text":         {"text", "review_text", "review", "comment", "content", "body", "message"},
	"lang":         {"lang", "language", "language_code", "languageCode", "locale"},
	"source_id":    {"source_id", "sourceId", "external_id"},
	"rating":       {"rating", "rate", "rating.value", "scores.overall", "overall_score", "average_score"},
	"created_at":   {"created_at", "createdAt", "date", "review_date"},
	"sentiment":    {"sentiment_score", "sentiment"},
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) (any, bool) {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := obj[part]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v, _ := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// firstPresentString returns the value of the first alias that is present at
// all. A present non-string value is coerced to "" (coerced reports it)
// rather than falling through to the next alias; an empty string is kept.
func firstPresentString(m map[string]any, aliases map[string][]string, key string) (s *string, present, coerced bool) {
	for _, p := range aliases[key] {
		v, ok := lookupAny(m, p)
		if !ok || v == nil {
			continue
		}
		if str, isStr := v.(string); isStr {
			return &str, true, false
		}
		empty := ""
		return &empty, true, true
	}
	return nil, false, false
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		v, _ := lookupAny(m, k)
		switch v := v.(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		v, _ := lookupAny(m, k)
		switch v := v.(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

func firstTime(m map[string]any, paths ...string) *time.Time {
	for _, k := range paths {
		s := strings.TrimSpace(lookupStr(m, k))
		if s == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}

/********** review mapper **********/

// mapReview turns one loosely-typed review object into a domain.Review. The
// second return is false when the object carries no usable ID.
func mapReview(r map[string]any) (domain.Review, bool) {
	var rv domain.Review

	id := firstInt64Flexible(r, reviewAliases["id"]...)
	if id != nil {
		rv.ID = *id
	}
	if pid := firstInt64Flexible(r, reviewAliases["property_id"]...); pid != nil {
		rv.PropertyID = *pid
	}

	// Author → prefer single field; fallback to first + last.
	if s := firstNonEmptyAlias(r, reviewAliases, "author"); s != nil {
		rv.Author = s
	} else {
		first := firstNonEmptyAlias(r, reviewAliases, "author_first")
		last := firstNonEmptyAlias(r, reviewAliases, "author_last")
		if full := joinNonEmpty(deref(first), deref(last)); full != "" {
			rv.Author = &full
		}
	}

	rv.Title = firstNonEmptyAlias(r, reviewAliases, "title")

	// Text: non-string values become "" so the review is still scored
	// (neutral) and counted. Fallback compose from pros/cons only when no
	// text field exists at all.
	if s, present, coerced := firstPresentString(r, reviewAliases, "text"); present {
		rv.Text = s
		if coerced {
			log.Warn().Int64("review_id", rv.ID).Msg("review text is not a string, scoring as empty")
		}
	} else {
		pros, cons := lookupStr(r, "pros"), lookupStr(r, "cons")
		if pros != "" || cons != "" {
			joined := strings.TrimSpace(strings.Join([]string{
				strings.TrimSpace("Pros: " + pros),
				strings.TrimSpace("Cons: " + cons),
			}, "\n"))
			rv.Text = &joined
		}
	}

	rv.Lang = firstNonEmptyAlias(r, reviewAliases, "lang")
	rv.Rating = getFloatFlexible(r, reviewAliases["rating"]...)
	rv.SourceID = firstNonEmptyAlias(r, reviewAliases, "source_id")
	rv.CreatedAt = firstTime(r, reviewAliases["created_at"]...)
	rv.Sentiment = getFloatFlexible(r, reviewAliases["sentiment"]...)

	return rv, id != nil
}
