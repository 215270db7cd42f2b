package daterange

import (
	"sync"
	"time"

	"github.com/dmitrymomot/bankchat/pkg/normalize"
)

// Resolver extracts and validates date ranges for one language.
// It is immutable after construction and safe for concurrent use.
type Resolver struct {
	lang    string
	order   Order
	ordered bool
	clock   func() time.Time
	scanner *scanner
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLanguage selects the month vocabulary and default numeric order.
// Unsupported languages fall back to English.
func WithLanguage(lang string) Option {
	return func(r *Resolver) {
		r.lang = lang
	}
}

// WithOrder overrides the language's preferred day/month order for numeric dates.
func WithOrder(o Order) Option {
	return func(r *Resolver) {
		r.order = o
		r.ordered = true
	}
}

// WithClock sets the source of "today". Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(r *Resolver) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// New creates a Resolver. Without options it reads English text and uses the
// wall clock.
func New(opts ...Option) *Resolver {
	r := &Resolver{lang: "en", clock: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	l := lookup(r.lang)
	if !r.ordered {
		r.order = l.order
	}
	r.scanner = cachedScanner(l, r.order)

	return r
}

// Today returns the reference date used for inference and validation.
func (r *Resolver) Today() time.Time {
	return dateOf(r.clock())
}

// Extract finds a date range in text without validating it.
// The boolean is false when the text holds zero or more than two date tokens.
func (r *Resolver) Extract(text string) (Range, bool) {
	today := r.Today()
	tokens := r.scanner.scan(normalize.Text(text), today)

	switch len(tokens) {
	case 1:
		start, end := tokens[0].period(today)
		return Range{Start: start, End: end}, true
	case 2:
		_, end := tokens[1].period(today)
		start, _ := tokens[0].period(end)
		return Range{Start: start, End: end}, true
	default:
		return Range{}, false
	}
}

// Validate checks that rng is set, ordered and not in the future.
// A valid range is returned unchanged, so Validate is idempotent.
func (r *Resolver) Validate(rng Range) (Range, error) {
	switch {
	case rng.IsZero():
		return Range{}, ErrUnrecognized
	case rng.Start.After(rng.End):
		return Range{}, ErrOrder
	case rng.End.After(r.Today()):
		return Range{}, ErrFuture
	}
	return rng, nil
}

// Resolve extracts and validates a range in one step.
func (r *Resolver) Resolve(text string) (Range, error) {
	rng, _ := r.Extract(text)
	return r.Validate(rng)
}

type scannerKey struct {
	loc   *locale
	order Order
}

var scanners sync.Map // scannerKey -> *scanner

// cachedScanner compiles the matchers of a locale/order pair once.
func cachedScanner(l *locale, order Order) *scanner {
	key := scannerKey{loc: l, order: order}
	if s, ok := scanners.Load(key); ok {
		return s.(*scanner)
	}
	s, _ := scanners.LoadOrStore(key, newScanner(l, order))
	return s.(*scanner)
}
