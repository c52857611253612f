package moderation

import (
	"github.com/abadojack/whatlanggo"
)

// DetectLanguage returns the ISO 639-1 code of the most likely language of
// the text, or an empty string when detection is unreliable.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
