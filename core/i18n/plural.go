package i18n

import "strings"

// CLDR plural categories used by the supported languages.
const (
	PluralOne   = "one"
	PluralMany  = "many"
	PluralOther = "other"
)

// PluralRule maps a count to a plural category.
type PluralRule func(n int) string

// EnglishPluralRule: one (1), other.
func EnglishPluralRule(n int) string {
	if n == 1 {
		return PluralOne
	}
	return PluralOther
}

// SpanishPluralRule: one (1), many (non-zero multiples of a million), other.
func SpanishPluralRule(n int) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n == 1:
		return PluralOne
	case n != 0 && n%1000000 == 0:
		return PluralMany
	default:
		return PluralOther
	}
}

// PluralRuleFor returns the rule for a language code. Unknown languages use the English rule.
func PluralRuleFor(lang string) PluralRule {
	if strings.HasPrefix(strings.ToLower(lang), "es") {
		return SpanishPluralRule
	}
	return EnglishPluralRule
}
