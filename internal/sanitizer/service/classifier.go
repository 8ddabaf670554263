package service

import (
	"regexp"
	"strings"

	"chatguard/internal/sanitizer/models"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// phoneCandidate finds digit groups joined by a single space, dot or
	// dash, with an optional +country prefix and (area) code. The digit
	// count is checked separately because RE2 cannot count across
	// separators.
	phoneCandidate = regexp.MustCompile(`(?:\+\d{1,3}[ .-]?)?(?:\(\d{1,4}\)[ .-]?)?\d+(?:[ .-]\d+)*`)

	// dateTimePattern matches calendar dates and clock times, which are
	// removed before phone matching.
	dateTimePattern = regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b|\b\d{1,2}[/.]\d{1,2}[/.]\d{4}\b|\b\d{1,2}:\d{2}(?::\d{2})?\b`)
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// Detect returns the patterns found in text, in a fixed order.
func Detect(text string, hints models.Hints) []models.Pattern {
	var found []models.Pattern
	if containsPhone(text) {
		found = append(found, models.PatternPhone)
	}
	if emailPattern.MatchString(text) {
		found = append(found, models.PatternEmail)
	}
	if hints.ContainsSensitiveInfo {
		found = append(found, models.PatternHint)
	}
	return found
}

func containsPhone(text string) bool {
	text = dateTimePattern.ReplaceAllString(text, "|")
	for _, m := range phoneCandidate.FindAllString(text, -1) {
		n := 0
		for i := 0; i < len(m); i++ {
			if m[i] >= '0' && m[i] <= '9' {
				n++
			}
		}
		if n < minPhoneDigits || n > maxPhoneDigits {
			continue
		}
		if isAmountList(m) {
			continue
		}
		return true
	}
	return false
}

// isAmountList reports whether m is three or more space-separated numbers
// of the same width, as in a price list. Phone groups vary in width or use
// phone punctuation.
func isAmountList(m string) bool {
	if strings.ContainsAny(m, "+(.-") {
		return false
	}
	groups := strings.Split(m, " ")
	if len(groups) < 3 || len(groups[0]) < 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != len(groups[0]) {
			return false
		}
	}
	return true
}
