package classify

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// ", then", " and then", "; next," in the middle of a sentence. A bare
	// "next" only counts when punctuated so "next to the stove" survives.
	connectiveRe = regexp.MustCompile(`(?i)(?:\s*[,;]\s*|\s+)(?:and\s+)?(?:then\b[,:]?|next[,:])\s*`)
	// A connective opening the sentence carries no meaning of its own.
	leadingConnectiveRe = regexp.MustCompile(`(?i)^(?:then|next)\b[,:]?\s*`)
)

// SplitSentences breaks instruction text into single-action units. It cuts
// after '.', '!' or '?' when whitespace and a capital letter follow, and at
// "then"/"next" connectives. Units shorter than minLen characters are
// dropped as splitting noise.
func SplitSentences(text string, minLen int) []string {
	var out []string
	for _, sentence := range splitTerminators(text) {
		for _, part := range connectiveRe.Split(sentence, -1) {
			part = strings.TrimSpace(leadingConnectiveRe.ReplaceAllString(strings.TrimSpace(part), ""))
			if len([]rune(part)) < minLen {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

func splitTerminators(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		out = append(out, strings.TrimSpace(string(runes[start:i+1])))
		start = j
		i = j - 1
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		out = append(out, rest)
	}
	return out
}
