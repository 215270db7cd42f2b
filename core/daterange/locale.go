package daterange

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Order is the preferred position of day and month in numeric dates.
type Order int

const (
	// DMY reads 03/04/2021 as 3 April 2021.
	DMY Order = iota
	// MDY reads 03/04/2021 as 4 March 2021.
	MDY
)

// ParseOrder maps "DMY"/"MDY" (any case) to an Order. Unknown values yield DMY.
func ParseOrder(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), "MDY") {
		return MDY
	}
	return DMY
}

// relative is a date expression resolved against today.
type relative struct {
	pattern string
	resolve func(today time.Time) token
}

// locale holds the month vocabulary and relative expressions of one language.
// Names are written in normalized form: lowercase, no accents.
type locale struct {
	order   Order
	months  map[string]time.Month
	abbrevs map[string]time.Month
	// words are month names that are also common words; they only count
	// next to a day or a year.
	words    map[string]bool
	relative []relative
}

var locales = map[string]*locale{
	"en": {
		order: DMY,
		months: map[string]time.Month{
			"january": time.January, "february": time.February, "march": time.March,
			"april": time.April, "may": time.May, "june": time.June,
			"july": time.July, "august": time.August, "september": time.September,
			"october": time.October, "november": time.November, "december": time.December,
		},
		abbrevs: map[string]time.Month{
			"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
			"jun": time.June, "jul": time.July, "aug": time.August, "sep": time.September,
			"sept": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
		},
		words: map[string]bool{"may": true},
		relative: []relative{
			{`today`, dayOffset(0)},
			{`yesterday`, dayOffset(-1)},
			{`this month`, monthOffset(0)},
			{`last month`, monthOffset(-1)},
			{`this year`, yearOffset(0)},
			{`last year`, yearOffset(-1)},
		},
	},
	"es": {
		order: DMY,
		months: map[string]time.Month{
			"enero": time.January, "febrero": time.February, "marzo": time.March,
			"abril": time.April, "mayo": time.May, "junio": time.June,
			"julio": time.July, "agosto": time.August, "septiembre": time.September,
			"setiembre": time.September, "octubre": time.October, "noviembre": time.November,
			"diciembre": time.December,
		},
		abbrevs: map[string]time.Month{
			"ene": time.January, "feb": time.February, "mar": time.March, "abr": time.April,
			"may": time.May, "jun": time.June, "jul": time.July, "ago": time.August,
			"sep": time.September, "set": time.September, "oct": time.October,
			"nov": time.November, "dic": time.December,
		},
		relative: []relative{
			{`hoy`, dayOffset(0)},
			{`ayer`, dayOffset(-1)},
			{`este mes`, monthOffset(0)},
			{`(?:el )?mes pasado`, monthOffset(-1)},
			{`este ano`, yearOffset(0)},
			{`(?:el )?ano pasado`, yearOffset(-1)},
		},
	},
}

func dayOffset(days int) func(time.Time) token {
	return func(today time.Time) token {
		d := today.AddDate(0, 0, days)
		return token{gran: granDay, year: d.Year(), month: d.Month(), day: d.Day()}
	}
}

func monthOffset(months int) func(time.Time) token {
	return func(today time.Time) token {
		d := Date(today.Year(), today.Month()+time.Month(months), 1)
		return token{gran: granMonth, year: d.Year(), month: d.Month()}
	}
}

func yearOffset(years int) func(time.Time) token {
	return func(today time.Time) token {
		return token{gran: granYear, year: today.Year() + years}
	}
}

// lookup returns the locale for lang, falling back to English.
func lookup(lang string) *locale {
	if len(lang) > 2 {
		lang = lang[:2]
	}
	if l, ok := locales[strings.ToLower(lang)]; ok {
		return l
	}
	return locales["en"]
}

// month resolves a month name or abbreviation.
func (l *locale) month(name string) (time.Month, bool) {
	if m, ok := l.months[name]; ok {
		return m, true
	}
	m, ok := l.abbrevs[name]
	return m, ok
}

// standalone returns the month names that are recognized without a day or year.
func (l *locale) standalone() map[string]time.Month {
	out := make(map[string]time.Month, len(l.months))
	for name, m := range l.months {
		if !l.words[name] {
			out[name] = m
		}
	}
	return out
}

// alternation builds a regexp alternation of the given names, longest first.
func alternation(sets ...map[string]time.Month) string {
	var names []string
	for _, set := range sets {
		for name := range set {
			names = append(names, regexp.QuoteMeta(name))
		}
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return strings.Join(slices.Compact(names), "|")
}
