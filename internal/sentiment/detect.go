package sentiment

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// WhatlangDetector detects languages with whatlanggo trigram profiles and
// reports ISO 639-3 codes ("eng", "vie").
type WhatlangDetector struct {
	minConfidence float64
	opts          whatlanggo.Options
}

// NewWhatlangDetector returns a detector that rejects guesses below
// minConfidence. An empty allow list means every supported language.
func NewWhatlangDetector(minConfidence float64, allow ...whatlanggo.Lang) *WhatlangDetector {
	d := &WhatlangDetector{minConfidence: minConfidence}
	if len(allow) > 0 {
		d.opts.Whitelist = make(map[whatlanggo.Lang]bool, len(allow))
		for _, l := range allow {
			d.opts.Whitelist[l] = true
		}
	}
	return d
}

func (d *WhatlangDetector) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	info := whatlanggo.DetectWithOptions(text, d.opts)
	code := info.Lang.Iso6393()
	if code == "" || info.Confidence < d.minConfidence {
		return "", false
	}
	return code, true
}
