package utils

import "strings"

// ContainsAny checks if the text contains any of the given phrases
func ContainsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
