package sentiment

import "strings"

// Language is the scoring family a language code belongs to.
type Language int

const (
	LangOther Language = iota
	LangEnglish
	LangVietnamese
)

func (l Language) String() string {
	switch l {
	case LangEnglish:
		return "en"
	case LangVietnamese:
		return "vi"
	default:
		return "other"
	}
}

var exactCodes = map[string]Language{
	"en":         LangEnglish,
	"eng":        LangEnglish,
	"english":    LangEnglish,
	"vi":         LangVietnamese,
	"vie":        LangVietnamese,
	"vietnamese": LangVietnamese,
}

// Classify maps a language code to a Language. Match order: exact code, then
// the primary subtag of a tagged code ("vi-VN", "en_US"), then LangOther.
func Classify(code string) Language {
	c := normalizeTag(code)
	if c == "" {
		return LangOther
	}
	if l, ok := exactCodes[c]; ok {
		return l
	}
	if i := strings.IndexAny(c, "-_"); i > 0 {
		if l, ok := exactCodes[c[:i]]; ok {
			return l
		}
	}
	return LangOther
}

func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
