package util

import (
	"github.com/forPelevin/gomoji"
	"strings"
)

// StripEmoji removes every emoji from s, and trims the leftover whitespace
func StripEmoji(s string) string {
	if !gomoji.ContainsEmoji(s) {
		return strings.TrimSpace(s)
	}

	for _, e := range gomoji.CollectAll(s) {
		s = strings.ReplaceAll(s, e.Character, "")
	}
	return strings.TrimSpace(s)
}
