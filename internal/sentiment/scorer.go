package sentiment

import (
	"math"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

const (
	// NormalizationConstant scales raw lexicon sums into [-1, 1].
	NormalizationConstant = 3.0
	// PositiveThreshold is the score a review must exceed to count as positive.
	PositiveThreshold = 0.3
)

const (
	StrategyLexicon = "lexicon"
	StrategyVader   = "vader"
)

// Scorer maps text to a score in [-1, 1].
type Scorer interface {
	Score(text string) float64
}

type LexiconScorer struct {
	lex Lexicon
}

func NewLexiconScorer(lex Lexicon) *LexiconScorer {
	return &LexiconScorer{lex: lex}
}

// Score sums phrase matches over the whole text and single-word matches per
// token. A phrase and the words inside it can both contribute.
func (s *LexiconScorer) Score(text string) float64 {
	joined := normalizeText(text)
	if joined == "" {
		return 0
	}
	raw := 0.0
	for _, e := range s.lex.phrases {
		if strings.Contains(joined, e.phrase) {
			raw += e.weight
		}
	}
	for _, tok := range strings.Fields(joined) {
		if w, ok := s.lex.tokens[tok]; ok {
			raw += w
		}
	}
	if raw == 0 {
		return 0
	}
	return round3(clamp(raw / NormalizationConstant))
}

// VaderScorer wraps govader. The analyzer is not safe for concurrent use, so
// calls are serialized.
type VaderScorer struct {
	mu  sync.Mutex
	sia *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VaderScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	s.mu.Lock()
	scores := s.sia.PolarityScores(text)
	s.mu.Unlock()
	if math.IsNaN(scores.Compound) {
		return 0
	}
	return round3(clamp(scores.Compound))
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
