package transcriber

import (
	"strings"

	"golang.org/x/text/language"
)

// Names users tend to type instead of ISO codes.
var languageNames = map[string]string{
	"chinese":    "zh",
	"mandarin":   "zh",
	"cantonese":  "yue",
	"english":    "en",
	"vietnamese": "vi",
	"japanese":   "ja",
	"korean":     "ko",
	"french":     "fr",
	"german":     "de",
	"spanish":    "es",
	"portuguese": "pt",
	"italian":    "it",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"thai":       "th",
	"indonesian": "id",
}

// NormalizeLanguage maps a user hint to an ISO 639 code. It returns "" for
// empty, "auto" and unparseable hints, which means auto-detection.
func NormalizeLanguage(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" || h == "auto" {
		return ""
	}
	if code, ok := languageNames[h]; ok {
		return code
	}

	tag, err := language.Parse(h)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
