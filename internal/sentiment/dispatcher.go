package sentiment

import "hotel_sentiment/internal/domain"

// Outcome is the result of scoring one review.
type Outcome struct {
	Score    float64
	Language Language
	Strategy string
}

// Dispatcher routes a review to the lexicon scorer or the general scorer.
// It holds no per-call state and may be shared across goroutines as long as
// its scorers are.
type Dispatcher struct {
	resolver *Resolver
	lexicon  Scorer
	general  Scorer
}

func NewDispatcher(r *Resolver, lexicon, general Scorer) *Dispatcher {
	return &Dispatcher{resolver: r, lexicon: lexicon, general: general}
}

func (d *Dispatcher) Dispatch(rv domain.Review) Outcome {
	text := ""
	if rv.Text != nil {
		text = *rv.Text
	}
	tag := ""
	if rv.Lang != nil {
		tag = *rv.Lang
	}
	return d.DispatchText(tag, text)
}

// DispatchText scores text under an optional explicit language tag.
func (d *Dispatcher) DispatchText(tag, text string) Outcome {
	lang := Classify(d.resolver.Resolve(tag, text))
	switch lang {
	case LangVietnamese:
		return Outcome{Score: d.lexicon.Score(text), Language: lang, Strategy: StrategyLexicon}
	case LangEnglish:
		return Outcome{Score: d.general.Score(text), Language: lang, Strategy: StrategyVader}
	}
	// unknown tag or fallback: give detection one more chance before defaulting
	if Classify(d.resolver.Detect(text)) == LangVietnamese {
		return Outcome{Score: d.lexicon.Score(text), Language: LangVietnamese, Strategy: StrategyLexicon}
	}
	return Outcome{Score: d.general.Score(text), Language: lang, Strategy: StrategyVader}
}

// Score is Dispatch reduced to the score.
func (d *Dispatcher) Score(rv domain.Review) float64 {
	return d.Dispatch(rv).Score
}
