package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chatguard/internal/sanitizer/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		hints models.Hints
		want  []models.Pattern
	}{
		{"plain text", "hello plumber", models.Hints{}, nil},
		{"email", "write me at user@example.com", models.Hints{}, []models.Pattern{models.PatternEmail}},
		{"international phone", "+52 555 123 4567", models.Hints{}, []models.Pattern{models.PatternPhone}},
		{"local phone with dashes", "call 555-123-4567 tonight", models.Hints{}, []models.Pattern{models.PatternPhone}},
		{"phone with parentheses and dots", "(55) 5123.4567.89", models.Hints{}, []models.Pattern{models.PatternPhone}},
		{"short number is not a phone", "quote is 1500 for 3 rooms", models.Hints{}, nil},
		{"too many digits", "order 1234567890123456789", models.Hints{}, nil},
		{"unbroken phone", "my number is 5512345678", models.Hints{}, []models.Pattern{models.PatternPhone}},
		{"country code without spaces", "+5215551234567", models.Hints{}, []models.Pattern{models.PatternPhone}},
		{"two-digit groups", "06 12 34 56 78", models.Hints{}, []models.Pattern{models.PatternPhone}},
		{"date and time", "see you on 2024-01-15 10:30", models.Hints{}, nil},
		{"slash date next to an amount", "invoice 15/01/2024 total 350", models.Hints{}, nil},
		{"price list", "quote: 100 200 300 400 500 pesos", models.Hints{}, nil},
		{"wider price list", "options 1500 2500 3500 cash", models.Hints{}, nil},
		{"numbers joined by double spaces", "rooms 12  34  56  78  90", models.Hints{}, nil},
		{"sentence end after a number", "call 555-123-4567.", models.Hints{}, []models.Pattern{models.PatternPhone}},
		{"hint only", "meet me where we said", models.Hints{ContainsSensitiveInfo: true}, []models.Pattern{models.PatternHint}},
		{
			"everything",
			"mail a@b.io or +1 (212) 555-0100",
			models.Hints{ContainsSensitiveInfo: true},
			[]models.Pattern{models.PatternPhone, models.PatternEmail, models.PatternHint},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text, tt.hints))
		})
	}
}
