package daterange

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"time"
)

type granularity int

const (
	granDay granularity = iota
	granMonth
	granYear
)

// token is one recognized date expression. A zero year means the text did
// not carry one and it must be inferred from an anchor date.
type token struct {
	gran  granularity
	year  int
	month time.Month
	day   int
}

// period resolves the token against anchor and returns its first and last day.
func (t token) period(anchor time.Time) (time.Time, time.Time) {
	if t.year == 0 {
		t.year = anchor.Year()
		if start, _ := t.bounds(); start.After(anchor) {
			t.year--
		}
	}
	return t.bounds()
}

func (t token) bounds() (time.Time, time.Time) {
	switch t.gran {
	case granYear:
		return Date(t.year, time.January, 1), Date(t.year, time.December, 31)
	case granMonth:
		return Date(t.year, t.month, 1), Date(t.year, t.month, daysIn(t.year, t.month))
	default:
		// 29 February inferred into a non-leap year clamps to the 28th.
		d := Date(t.year, t.month, min(t.day, daysIn(t.year, t.month)))
		return d, d
	}
}

// builder turns the named groups of a match into a token.
type builder func(g map[string]string, today time.Time) (token, bool)

type matcher struct {
	re    *regexp.Regexp
	build builder
	// strict matchers claim their text even when it is not a valid date,
	// so 31/02/2021 is not re-read as 02/2021 by a looser matcher.
	strict bool
}

// scanner holds the compiled matchers of one locale and numeric order.
// Matchers are tried in declaration order; earlier matchers claim their text
// first, so more specific shapes must come before looser ones.
type scanner struct {
	matchers []matcher
}

func newScanner(l *locale, order Order) *scanner {
	full := alternation(l.standalone())
	named := alternation(l.months, l.abbrevs)
	const (
		yyyy    = `(?:19|20)\d{2}`
		ordinal = `(?:st|nd|rd|th)?`
		yearSep = `\s*,?\s*(?:del?\s+|of\s+)?`
	)

	s := &scanner{}
	add := func(pattern string, b builder) {
		s.matchers = append(s.matchers, matcher{re: regexp.MustCompile(pattern), build: b})
	}
	strict := func(pattern string, b builder) {
		s.matchers = append(s.matchers, matcher{re: regexp.MustCompile(pattern), build: b, strict: true})
	}

	// 2021-03-15
	strict(`\b(?P<y>`+yyyy+`)-(?P<m>\d{1,2})-(?P<d>\d{1,2})\b`, func(g map[string]string, _ time.Time) (token, bool) {
		return dayToken(atoi(g["y"]), atoi(g["m"]), atoi(g["d"]))
	})
	// 15/03/2021, 15-03-21, 03.15.2021
	strict(`\b(?P<a>\d{1,2})[/.-](?P<b>\d{1,2})[/.-](?P<y>`+yyyy+`|\d{2})\b`, func(g map[string]string, _ time.Time) (token, bool) {
		return numericDay(order, atoi(g["a"]), atoi(g["b"]), year(g["y"]))
	})
	// 15 de marzo de 2021, 15th of march 2021, 3 mar 2021
	add(`\b(?P<d>\d{1,2})`+ordinal+`\s+(?:de\s+|of\s+)?(?P<name>`+named+`)\b(?:`+yearSep+`(?P<y>`+yyyy+`)\b)?`,
		func(g map[string]string, _ time.Time) (token, bool) {
			m, _ := l.month(g["name"])
			return dayToken(year(g["y"]), int(m), atoi(g["d"]))
		})
	// march 15th, 2021
	add(`\b(?P<name>`+named+`)\s+(?P<d>\d{1,2})`+ordinal+`\b(?:`+yearSep+`(?P<y>`+yyyy+`)\b)?`,
		func(g map[string]string, _ time.Time) (token, bool) {
			m, _ := l.month(g["name"])
			return dayToken(year(g["y"]), int(m), atoi(g["d"]))
		})
	// mar 2021, sept. 2020: abbreviations only count with a year
	add(`\b(?P<name>`+named+`)\b\.?`+yearSep+`(?P<y>`+yyyy+`)\b`, func(g map[string]string, _ time.Time) (token, bool) {
		m, _ := l.month(g["name"])
		return token{gran: granMonth, year: atoi(g["y"]), month: m}, true
	})
	// agosto, december; never "may" on its own
	add(`\b(?P<name>`+full+`)\b`, func(g map[string]string, _ time.Time) (token, bool) {
		m, _ := l.month(g["name"])
		return token{gran: granMonth, month: m}, true
	})
	// 03/2021
	add(`\b(?P<m>\d{1,2})[/.-](?P<y>`+yyyy+`)\b`, func(g map[string]string, _ time.Time) (token, bool) {
		m := atoi(g["m"])
		if m < 1 || m > 12 {
			return token{}, false
		}
		return token{gran: granMonth, year: atoi(g["y"]), month: time.Month(m)}, true
	})
	// 15/03
	add(`\b(?P<a>\d{1,2})[/.](?P<b>\d{1,2})\b`, func(g map[string]string, _ time.Time) (token, bool) {
		return numericDay(order, atoi(g["a"]), atoi(g["b"]), 0)
	})
	for _, rel := range l.relative {
		add(`\b`+rel.pattern+`\b`, func(_ map[string]string, today time.Time) (token, bool) {
			return rel.resolve(today), true
		})
	}
	// 2020
	add(`\b(?P<y>`+yyyy+`)\b`, func(g map[string]string, _ time.Time) (token, bool) {
		return token{gran: granYear, year: atoi(g["y"])}, true
	})

	return s
}

type positioned struct {
	pos int
	tok token
}

// scan returns the recognized tokens of text in order of appearance.
func (s *scanner) scan(text string, today time.Time) []token {
	var (
		found   []positioned
		claimed [][2]int
	)

	for _, m := range s.matchers {
		names := m.re.SubexpNames()
		for _, idx := range m.re.FindAllStringSubmatchIndex(text, -1) {
			if overlaps(claimed, idx[0], idx[1]) {
				continue
			}

			groups := make(map[string]string, len(names))
			for i, name := range names {
				if name != "" && idx[2*i] >= 0 {
					groups[name] = text[idx[2*i]:idx[2*i+1]]
				}
			}

			tok, ok := m.build(groups, today)
			if ok || m.strict {
				claimed = append(claimed, [2]int{idx[0], idx[1]})
			}
			if ok {
				found = append(found, positioned{pos: idx[0], tok: tok})
			}
		}
	}

	slices.SortFunc(found, func(a, b positioned) int { return cmp.Compare(a.pos, b.pos) })

	tokens := make([]token, len(found))
	for i, f := range found {
		tokens[i] = f.tok
	}
	return tokens
}

func overlaps(claimed [][2]int, start, end int) bool {
	for _, c := range claimed {
		if start < c[1] && c[0] < end {
			return true
		}
	}
	return false
}

// numericDay interprets a/b according to order, swapping them when the
// preferred reading is not a valid date but the other one is.
func numericDay(order Order, a, b, y int) (token, bool) {
	d, m := a, b
	if order == MDY {
		d, m = b, a
	}
	if tok, ok := dayToken(y, m, d); ok {
		return tok, true
	}
	return dayToken(y, d, m)
}

// dayToken validates a day-level date. A zero year is checked against a leap
// year so 29/02 is accepted until the year is known.
func dayToken(y, m, d int) (token, bool) {
	if m < 1 || m > 12 || d < 1 {
		return token{}, false
	}
	check := y
	if check == 0 {
		check = 2000
	}
	if d > daysIn(check, time.Month(m)) {
		return token{}, false
	}
	return token{gran: granDay, year: y, month: time.Month(m), day: d}, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// year parses a 2 or 4 digit year; empty input yields 0.
func year(s string) int {
	switch len(s) {
	case 0:
		return 0
	case 2:
		return 2000 + atoi(s)
	default:
		return atoi(s)
	}
}
