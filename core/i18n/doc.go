// Package i18n holds translated message catalogs and locale-aware formatting.
//
// An I18n instance is configured once at construction and is immutable
// afterwards, so it is safe for concurrent use.
//
//	cat, err := i18n.New(
//		i18n.WithDefaultLanguage("en"),
//		i18n.WithYAML("en", "bot", enYAML),
//		i18n.WithYAML("es", "bot", esYAML),
//	)
//
//	cat.T("es", "bot", "logout.done")
//	cat.T("en", "bot", "login.success", i18n.M{"provider": "Acme Bank"})
//	cat.Tn("en", "bot", "accounts.count", 3)
//
// Nested catalogs are flattened with dot notation. Placeholders use the
// %{name} syntax. Missing keys fall back to the default language and then to
// the key itself.
//
// # Language negotiation
//
// Match picks the best supported language for an Accept-Language header
// using the CLDR matcher from golang.org/x/text/language:
//
//	lang := cat.Match(r.Header.Get("Accept-Language"))
//
// # Formatting
//
// FormatMoney renders amounts for a language; FormatDate is day first everywhere:
//
//	i18n.FormatMoney("es", "UYU", decimal.RequireFromString("12345.5")) // "UYU 12.345,50"
//	i18n.FormatDate(t)                                                // "02/01/2021"
package i18n
