package domain

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DetectLanguage returns the ISO 639-1 code of the body's language, or an
// empty string when detection is not reliable (short or ambiguous text).
func DetectLanguage(body string) string {
	info := whatlanggo.Detect(body)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}

// MatchesPractice reports whether a detected language matches the room's
// practice language. Unknown detections match by default: the flag is
// advisory and must never block a message.
func MatchesPractice(detected, roomCode string) bool {
	if detected == "" || roomCode == "" {
		return true
	}
	return strings.EqualFold(detected, roomCode)
}
