package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterProfanity(t *testing.T) {
	assert.Equal(t, "what the ****", FilterProfanity("what the hell"))
	assert.Equal(t, "****** question", FilterProfanity("stupid question"))
	assert.Equal(t, "clean text", FilterProfanity("clean text"))
	assert.Equal(t, "", FilterProfanity(""))
}

func TestFilterProfanityCaseInsensitive(t *testing.T) {
	assert.Equal(t, "****!", FilterProfanity("DAMN!"))
	assert.Equal(t, "**** it", FilterProfanity("Damn it"))
}

func TestFilterProfanityWholeWordsOnly(t *testing.T) {
	// Substrings inside longer words are left alone.
	assert.Equal(t, "classic assessment", FilterProfanity("classic assessment"))
	assert.Equal(t, "hello shellfish", FilterProfanity("hello shellfish"))
}

func TestFilterProfanityPreservesLength(t *testing.T) {
	in := "that was a stupid, dumb idea"
	out := FilterProfanity(in)
	assert.Len(t, out, len(in))
}
