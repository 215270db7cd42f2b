package i18n_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bankchat/core/i18n"
)

var esYAML = []byte(`
greeting: "¡Hola, %{name}!"
accounts:
  count:
    one: "Tenés una cuenta"
    other: "Tenés %{count} cuentas"
`)

func catalog(t *testing.T, opts ...i18n.Option) *i18n.I18n {
	t.Helper()
	base := []i18n.Option{
		i18n.WithDefaultLanguage("en"),
		i18n.WithTranslations("en", "bot", map[string]any{
			"greeting": "Hello, %{name}!",
			"only_en":  "English only",
			"accounts": map[string]any{
				"count": map[string]string{"one": "You have one account", "other": "You have %{count} accounts"},
			},
		}),
		i18n.WithYAML("es", "bot", esYAML),
	}
	cat, err := i18n.New(append(base, opts...)...)
	require.NoError(t, err)
	return cat
}

func TestI18n_T(t *testing.T) {
	t.Parallel()

	var missing []string
	cat := catalog(t, i18n.WithMissingKeyHandler(func(lang, ns, key string) {
		missing = append(missing, lang+":"+key)
	}))

	assert.Equal(t, "¡Hola, Ana!", cat.T("es", "bot", "greeting", i18n.M{"name": "Ana"}))
	assert.Equal(t, "English only", cat.T("es", "bot", "only_en"))
	assert.Equal(t, "nope", cat.T("es", "bot", "nope"))
	assert.Equal(t, []string{"es:nope"}, missing)
	assert.Equal(t, []string{"en", "es"}, cat.Languages())
}

func TestI18n_Tn(t *testing.T) {
	t.Parallel()

	cat := catalog(t)
	assert.Equal(t, "You have one account", cat.Tn("en", "bot", "accounts.count", 1))
	assert.Equal(t, "You have 3 accounts", cat.Tn("en", "bot", "accounts.count", 3))
	assert.Equal(t, "Tenés 0 cuentas", cat.Tn("es", "bot", "accounts.count", 0))
	assert.Equal(t, "Tenés 1000000 cuentas", cat.Tn("es", "bot", "accounts.count", 1000000))
}

func TestI18n_Match(t *testing.T) {
	t.Parallel()

	cat := catalog(t)
	tests := map[string]string{
		"":                           "en",
		"es-AR,es;q=0.9,en;q=0.8":    "es",
		"fr-FR,fr;q=0.9":             "en",
		"en-US,en;q=0.9":             "en",
		"not a header ;;; q=bananas": "en",
	}
	for header, want := range tests {
		assert.Equal(t, want, cat.Match(header), header)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := i18n.New(i18n.WithDefaultLanguage(""))
	assert.ErrorIs(t, err, i18n.ErrEmptyLanguage)

	_, err = i18n.New(i18n.WithYAML("en", "bot", []byte("greeting: [unclosed")))
	assert.Error(t, err)
}

func TestPluralRules(t *testing.T) {
	t.Parallel()

	assert.Equal(t, i18n.PluralOne, i18n.EnglishPluralRule(1))
	assert.Equal(t, i18n.PluralOther, i18n.EnglishPluralRule(0))
	assert.Equal(t, i18n.PluralOne, i18n.SpanishPluralRule(1))
	assert.Equal(t, i18n.PluralMany, i18n.SpanishPluralRule(2000000))
	assert.Equal(t, i18n.PluralOther, i18n.SpanishPluralRule(12))
}

func TestTranslator(t *testing.T) {
	t.Parallel()

	cat := catalog(t)
	tr := i18n.NewTranslator(cat, "pt", "bot")
	assert.Equal(t, "en", tr.Language())
	assert.Equal(t, "Hello, Bo!", tr.T("greeting", i18n.M{"name": "Bo"}))

	d := time.Date(2021, time.February, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "03/02/2021", tr.Date(d))
	assert.Equal(t, "03/02/2021", i18n.NewTranslator(cat, "es", "bot").Date(d))
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	amount := decimal.RequireFromString("12345.5")
	assert.Equal(t, "USD 12,345.50", i18n.FormatMoney("en", "usd", amount))
	assert.Equal(t, "UYU 12.345,50", i18n.FormatMoney("es", "UYU", amount))
	assert.Equal(t, "0.00", i18n.FormatMoney("en", "", decimal.Zero))
}
