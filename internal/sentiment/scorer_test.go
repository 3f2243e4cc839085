package sentiment_test

import (
	"math"
	"strings"
	"testing"

	"hotel_sentiment/internal/sentiment"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLexiconScorer_Examples(t *testing.T) {
	s := sentiment.NewLexiconScorer(sentiment.DefaultVietnameseLexicon())
	cases := []struct {
		text string
		want float64
	}{
		{"rất tệ", -0.333},
		{"phòng bẩn", -0.4},
		{"Tốt!", 0.333},
		{"tốt", 0.333},
		{"TỐT.", 0.333},
		// repeated tokens both count
		{"tốt tốt", 0.667},
		// phrase 1.5 plus the token tuyệt 1.2
		{"tuyệt vời", 0.9},
		// phrase -1.0 cancels the token tốt +1.0
		{"không tốt", 0},
		{"không hài lòng, rất tệ", -0.667},
		{"tuyệt vời tuyệt vời thân thiện", 1},
	}
	for _, c := range cases {
		if got := s.Score(c.text); !near(got, c.want) {
			t.Errorf("Score(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestLexiconScorer_NoMatchIsExactlyZero(t *testing.T) {
	s := sentiment.NewLexiconScorer(sentiment.DefaultVietnameseLexicon())
	for _, txt := range []string{"", "   ", "phòng ở tầng ba", "!!!", "great stay"} {
		if got := s.Score(txt); got != 0 || math.Signbit(got) {
			t.Fatalf("Score(%q) = %v, want exact 0", txt, got)
		}
	}
}

func TestLexiconScorer_DecomposedInput(t *testing.T) {
	s := sentiment.NewLexiconScorer(sentiment.DefaultVietnameseLexicon())
	// "bẩn" spelled with combining marks (NFD)
	nfd := "phòng ba\u0302\u0309n"
	if got := s.Score(nfd); !near(got, -0.4) {
		t.Fatalf("NFD text scored %v, want -0.4", got)
	}
}

func TestLexiconScorer_InjectedLexicon(t *testing.T) {
	lex, err := sentiment.NewLexicon(map[string]float64{"xịn": 3, "quá xịn": 3})
	if err != nil {
		t.Fatalf("NewLexicon: %v", err)
	}
	s := sentiment.NewLexiconScorer(lex)
	if got := s.Score("quá xịn"); got != 1 {
		t.Fatalf("want clamp to 1, got %v", got)
	}
	// the default table is unaffected by the custom one
	def := sentiment.NewLexiconScorer(sentiment.DefaultVietnameseLexicon())
	if got := def.Score("quá xịn"); got != 0 {
		t.Fatalf("default lexicon leaked custom entries: %v", got)
	}
}

func TestLoadLexicon(t *testing.T) {
	doc := `
positive:
  "Sạch Sẽ!": 1.1
negative:
  hôi: -0.9
`
	lex, err := sentiment.LoadLexicon(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}
	if lex.Len() != 2 {
		t.Fatalf("want 2 entries, got %d", lex.Len())
	}
	s := sentiment.NewLexiconScorer(lex)
	if got := s.Score("phòng sạch sẽ nhưng hôi"); !near(got, 0.067) {
		t.Fatalf("got %v, want 0.067", got)
	}

	if _, err := sentiment.LoadLexicon(strings.NewReader("positive:\n  tốt: 1\nnegative:\n  TỐT: -1\n")); err == nil {
		t.Fatalf("expected duplicate phrase error")
	}
	if _, err := sentiment.LoadLexicon(strings.NewReader("positive: [")); err == nil {
		t.Fatalf("expected yaml error")
	}
	if _, err := sentiment.LoadLexiconFile("/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected file error")
	}
}

func TestVaderScorer(t *testing.T) {
	s := sentiment.NewVaderScorer()
	if got := s.Score(""); got != 0 {
		t.Fatalf("empty text: got %v", got)
	}
	if got := s.Score("great stay"); got <= 0 {
		t.Fatalf("expected positive, got %v", got)
	}
	if got := s.Score("The room was dirty and the staff were rude. Terrible."); got >= 0 {
		t.Fatalf("expected negative, got %v", got)
	}
	got := s.Score("good")
	if got != math.Round(got*1000)/1000 {
		t.Fatalf("score not rounded to 3 places: %v", got)
	}
}

func TestScorers_StayInRange(t *testing.T) {
	scorers := []sentiment.Scorer{
		sentiment.NewLexiconScorer(sentiment.DefaultVietnameseLexicon()),
		sentiment.NewVaderScorer(),
	}
	inputs := []string{
		"",
		strings.Repeat("tuyệt vời ", 50),
		strings.Repeat("tồi bẩn ", 50),
		strings.Repeat("AMAZING!!! best ever :) ", 20),
		strings.Repeat("horrible awful worst ", 20),
		"\x00\xff invalid utf8",
		"🙂👍",
	}
	for _, s := range scorers {
		for _, in := range inputs {
			got := s.Score(in)
			if got < -1 || got > 1 || math.IsNaN(got) {
				t.Fatalf("%T.Score(%q) = %v out of range", s, in, got)
			}
		}
	}
}
