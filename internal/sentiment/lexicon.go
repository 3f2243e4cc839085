package sentiment

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed lexicons/vi.yaml
var defaultVietnameseYAML []byte

type lexiconEntry struct {
	phrase string
	weight float64
}

// Lexicon is an immutable phrase -> weight table. Keys are stored in the same
// normalized form the scorer applies to review text.
type Lexicon struct {
	phrases []lexiconEntry     // multi-word, sorted by phrase
	tokens  map[string]float64 // single word
}

type lexiconFile struct {
	Positive map[string]float64 `yaml:"positive"`
	Negative map[string]float64 `yaml:"negative"`
}

// NewLexicon merges the given tables. A phrase that normalizes to the same key
// twice is rejected.
func NewLexicon(tables ...map[string]float64) (Lexicon, error) {
	lex := Lexicon{tokens: map[string]float64{}}
	seen := map[string]struct{}{}
	for _, t := range tables {
		for raw, w := range t {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return Lexicon{}, fmt.Errorf("lexicon: weight for %q is not finite", raw)
			}
			key := normalizeText(raw)
			if key == "" {
				return Lexicon{}, fmt.Errorf("lexicon: empty phrase %q", raw)
			}
			if _, dup := seen[key]; dup {
				return Lexicon{}, fmt.Errorf("lexicon: duplicate phrase %q", key)
			}
			seen[key] = struct{}{}
			if strings.Contains(key, " ") {
				lex.phrases = append(lex.phrases, lexiconEntry{phrase: key, weight: w})
			} else {
				lex.tokens[key] = w
			}
		}
	}
	sort.Slice(lex.phrases, func(i, j int) bool { return lex.phrases[i].phrase < lex.phrases[j].phrase })
	return lex, nil
}

// LoadLexicon reads a YAML document with "positive" and "negative" maps.
func LoadLexicon(r io.Reader) (Lexicon, error) {
	var f lexiconFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return Lexicon{}, fmt.Errorf("lexicon: decode yaml: %w", err)
	}
	return NewLexicon(f.Positive, f.Negative)
}

func LoadLexiconFile(path string) (Lexicon, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("lexicon: %w", err)
	}
	defer fh.Close()
	return LoadLexicon(fh)
}

// DefaultVietnameseLexicon returns the built-in Vietnamese table.
func DefaultVietnameseLexicon() Lexicon {
	lex, err := LoadLexicon(strings.NewReader(string(defaultVietnameseYAML)))
	if err != nil {
		panic(err) // embedded file is part of the build
	}
	return lex
}

// Len reports the number of entries.
func (l Lexicon) Len() int { return len(l.phrases) + len(l.tokens) }

// normalizeText composes to NFC, lowercases, turns everything that is not a
// word rune into a space and collapses runs of whitespace.
func normalizeText(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
