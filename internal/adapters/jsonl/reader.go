// Package jsonl reads reviews from and writes results to JSON-lines files.
package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"hotel_sentiment/internal/domain"
)

const maxLine = 4 << 20

// ReadReviews decodes one review object per line. Blank lines are skipped.
// Objects without an ID are numbered, in file order, after the largest
// explicit ID in the file.
func ReadReviews(r io.Reader) ([]domain.Review, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var (
		out     []domain.Review
		missing []int // indexes into out
		maxID   int64
	)
	seen := map[int64]int{}
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(b, &obj); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rv, ok := mapReview(obj)
		if !ok {
			missing = append(missing, len(out))
			out = append(out, rv)
			continue
		}
		if prev, dup := seen[rv.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate review id %d (first on line %d)", line, rv.ID, prev)
		}
		seen[rv.ID] = line
		if rv.ID > maxID {
			maxID = rv.ID
		}
		out = append(out, rv)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read reviews: %w", err)
	}

	for _, i := range missing {
		maxID++
		out[i].ID = maxID
	}
	if len(missing) > 0 {
		log.Debug().Int("reviews", len(missing)).Int64("first_id", out[missing[0]].ID).Msg("reviews without id numbered")
	}
	return out, nil
}

// ReadReviewsFile is ReadReviews over a file; "-" means stdin.
func ReadReviewsFile(path string) ([]domain.Review, error) {
	if path == "-" {
		return ReadReviews(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadReviews(f)
}
