package sentiment

import "strings"

// DefaultFallbackLanguage is used when neither a tag nor detection yields a code.
const DefaultFallbackLanguage = "en"

// Detector guesses the language of a text. ok is false when it has no
// confident answer.
type Detector interface {
	Detect(text string) (code string, ok bool)
}

type Resolver struct {
	det      Detector
	fallback string
}

func NewResolver(det Detector, fallback string) *Resolver {
	fallback = normalizeTag(fallback)
	if fallback == "" {
		fallback = DefaultFallbackLanguage
	}
	return &Resolver{det: det, fallback: fallback}
}

// Resolve returns the explicit tag when one is given, otherwise the detected
// language of text. It never fails: undetectable text resolves to the fallback.
func (r *Resolver) Resolve(tag, text string) string {
	if t := normalizeTag(tag); t != "" {
		return t
	}
	return r.Detect(text)
}

// Detect runs detection only, mapping every failure to the fallback code.
func (r *Resolver) Detect(text string) string {
	if r.det == nil || strings.TrimSpace(text) == "" {
		return r.fallback
	}
	code, ok := r.det.Detect(text)
	if !ok || normalizeTag(code) == "" {
		return r.fallback
	}
	return normalizeTag(code)
}

func (r *Resolver) Fallback() string { return r.fallback }
