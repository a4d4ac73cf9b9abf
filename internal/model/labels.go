package model

import (
	"strings"
	"unicode"
)

// labelAcronyms are name segments shown in upper case.
var labelAcronyms = map[string]string{
	"cvv": "CVV",
	"id":  "ID",
	"url": "URL",
}

// DefaultLabeler derives a sentence-case label from a camelCase field name or
// a step id when the catalog does not supply one: "phoneNumber" becomes
// "Phone number" and "cardCvv" becomes "Card CVV".
func DefaultLabeler(name string) string {
	var (
		words []string
		word  []rune
	)
	flush := func() {
		if len(word) == 0 {
			return
		}
		words = append(words, labelWord(string(word), len(words) == 0))
		word = word[:0]
	}
	for _, r := range strings.TrimSpace(name) {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(word) > 0 && !unicode.IsUpper(word[len(word)-1]) {
			flush()
		}
		word = append(word, r)
	}
	flush()
	return strings.Join(words, " ")
}

func labelWord(word string, first bool) string {
	lower := strings.ToLower(word)
	if acronym, ok := labelAcronyms[lower]; ok {
		return acronym
	}
	if !first {
		return lower
	}
	runes := []rune(lower)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
