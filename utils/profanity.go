// utils/profanity.go - Word Filter
package utils

import (
	"regexp"
	"strings"
)

// badWords is a flat deny list. Matching is case-insensitive and bounded to
// whole words, so substrings inside longer words survive.
var badWords = []string{
	"stupid", "idiot", "fool", "dumb", "damn", "hell", "crap", "shit",
	"fuck", "fucking", "fucked", "motherfucker", "bitch", "bastard",
	"ass", "asshole", "piss", "pissed", "dick", "cock", "pussy",
}

var badWordPattern = compileBadWords()

func compileBadWords() *regexp.Regexp {
	escaped := make([]string, len(badWords))
	for i, w := range badWords {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
}

// FilterProfanity stars out deny-listed words, keeping their length.
func FilterProfanity(text string) string {
	if text == "" {
		return text
	}
	return badWordPattern.ReplaceAllStringFunc(text, func(match string) string {
		return strings.Repeat("*", len(match))
	})
}
