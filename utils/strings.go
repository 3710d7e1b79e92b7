package utils

import (
	"strings"
	"unicode/utf8"
)

const maskVisibleChars = 4

// MaskKey hides all but the first and last few characters of a credential.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	n := utf8.RuneCountInString(key)
	if n == 0 {
		return ""
	}
	if n <= maskVisibleChars*2 {
		return strings.Repeat("*", n)
	}
	runes := []rune(key)
	return string(runes[:maskVisibleChars]) + "..." + string(runes[n-maskVisibleChars:])
}

// CleanJSONResponse strips a surrounding Markdown code fence from a model
// answer.
func CleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") && strings.HasSuffix(response, "```") {
		response = strings.TrimPrefix(response, "```json")
		response = strings.TrimSuffix(response, "```")
	} else if strings.HasPrefix(response, "```") && strings.HasSuffix(response, "```") {
		response = strings.TrimPrefix(response, "```")
		response = strings.TrimSuffix(response, "```")
	}
	return strings.TrimSpace(response)
}
