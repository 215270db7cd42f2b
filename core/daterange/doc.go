// Package daterange extracts a calendar date interval from free chat text and
// validates it for use in account and card movement queries.
//
// Extraction recognizes numeric dates (15/03/2021, 2021-03-15, 03/2021), month
// names in the configured language (15 de marzo de 2021, March 15th, agosto 2020),
// bare years, and a handful of relative expressions (today, ayer, last month).
// The number of recognized tokens decides the shape of the range:
//
//   - none: nothing extracted
//   - one: the token covers both ends; months and years expand to their first
//     and last day
//   - two: the second token is resolved first (against today) and becomes the
//     anchor for the first one, so "december to january" spans a year boundary
//   - more than two: ambiguous, nothing extracted
//
// Tokens without an explicit year take the anchor's year, moving one year back
// when that would land after the anchor.
//
// Usage:
//
//	r := daterange.New(daterange.WithLanguage("es"))
//	rng, err := r.Resolve("movimientos desde enero hasta marzo de 2021")
//	if err != nil {
//		switch {
//		case errors.Is(err, daterange.ErrUnrecognized):
//		case errors.Is(err, daterange.ErrOrder):
//		case errors.Is(err, daterange.ErrFuture):
//		}
//	}
//
// The reference "today" comes from the resolver's clock, injectable with
// WithClock, so identical input and clock always produce identical output.
package daterange
