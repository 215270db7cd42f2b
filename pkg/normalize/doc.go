// Package normalize turns free user input into the canonical form used for
// pattern matching across the chat engine.
//
// Normalization applies Unicode canonical decomposition (NFD), drops the
// non-spacing combining marks produced by the decomposition, lowercases the
// result and collapses runs of whitespace into a single space:
//
//	normalize.Text("  Banco  de la Nación ") // "banco de la nacion"
//	normalize.Text("Año")                    // "ano"
//
// Characters without a decomposition (ß, ø, CJK) are kept as they are, so the
// output is not guaranteed to be ASCII. Patterns should be written against the
// normalized alphabet: lowercase, no accents.
package normalize
