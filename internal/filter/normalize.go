package filter

import (
	"regexp"
	"strings"
)

var (
	wsRe      = regexp.MustCompile(`\s+`)
	urlRe     = regexp.MustCompile(`https?://\S+`)
	mentionRe = regexp.MustCompile(`@\w+`)
)

// arabicFold maps common Arabic letter variants to a canonical form so that
// orthographic variations of the same word compare equal.
var arabicFold = strings.NewReplacer(
	"أ", "ا",
	"إ", "ا",
	"آ", "ا",
	"ة", "ه",
	"ى", "ي",
	"ئ", "ي",
	"ؤ", "و",
)

// Normalize derives the comparison form of a record under the active options.
func (o Options) Normalize(s string) string {
	if o.StripURLs {
		s = urlRe.ReplaceAllString(s, "")
	}
	if o.StripMentions {
		s = mentionRe.ReplaceAllString(s, "")
	}
	if o.FoldArabic {
		s = arabicFold.Replace(s)
	}
	if o.TrimWhitespace {
		s = wsRe.ReplaceAllString(strings.TrimSpace(s), " ")
	}
	if !o.CaseSensitive {
		s = strings.ToLower(s)
	}
	return s
}
