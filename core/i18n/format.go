package i18n

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatMoney renders amount with two decimals and the grouping rules of
// lang, prefixed by the ISO currency code. Unknown codes are printed as given.
func FormatMoney(lang, code string, amount decimal.Decimal) string {
	p := message.NewPrinter(language.Make(lang))
	unit := strings.ToUpper(strings.TrimSpace(code))
	if u, err := currency.ParseISO(unit); err == nil {
		unit = u.String()
	}
	v := p.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
	if unit == "" {
		return v
	}
	return unit + " " + v
}

// FormatDate renders a calendar date as dd/mm/yyyy, the numeric form users
// are asked to type in every language.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
