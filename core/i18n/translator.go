package i18n

import (
	"time"

	"github.com/shopspring/decimal"
)

// Translator binds an I18n to one language and namespace.
type Translator struct {
	i18n      *I18n
	language  string
	namespace string
}

// NewTranslator creates a Translator. An unsupported language falls back to the default.
func NewTranslator(i18n *I18n, lang, namespace string) *Translator {
	if i18n == nil {
		panic("i18n: catalog is not provided")
	}
	if lang == "" || !i18n.Supports(lang) {
		lang = i18n.DefaultLanguage()
	}
	return &Translator{i18n: i18n, language: lang, namespace: namespace}
}

func (t *Translator) T(key string, placeholders ...M) string {
	return t.i18n.T(t.language, t.namespace, key, placeholders...)
}

func (t *Translator) Tn(key string, n int, placeholders ...M) string {
	return t.i18n.Tn(t.language, t.namespace, key, n, placeholders...)
}

func (t *Translator) Language() string {
	return t.language
}

func (t *Translator) Money(code string, amount decimal.Decimal) string {
	return FormatMoney(t.language, code, amount)
}

func (t *Translator) Date(d time.Time) string {
	return FormatDate(d)
}
