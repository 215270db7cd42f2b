package chat

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitrymomot/bankchat/core/banking"
	"github.com/dmitrymomot/bankchat/core/cascade"
	"github.com/dmitrymomot/bankchat/core/daterange"
	"github.com/dmitrymomot/bankchat/core/i18n"
)

// localCurrencies maps provider countries to the currency of their local balances.
var localCurrencies = map[string]string{
	"AR": "ARS",
	"BR": "BRL",
	"CL": "CLP",
	"CO": "COP",
	"EC": "USD",
	"MX": "MXN",
	"PE": "PEN",
	"UY": "UYU",
}

func localCurrency(country string) string {
	if c, ok := localCurrencies[strings.ToUpper(country)]; ok {
		return c
	}
	return "USD"
}

func (d *Dispatcher) message(key string) cascade.Handler[*Turn, Result] {
	return func(_ context.Context, t *Turn, _ cascade.Groups) (Result, error) {
		return Message(t.tr.T(key)), nil
	}
}

func (d *Dispatcher) providers(_ context.Context, t *Turn, _ cascade.Groups) (Result, error) {
	byCountry := make(map[string][]string)
	for _, p := range t.State.Providers {
		byCountry[p.Country] = append(byCountry[p.Country], p.Name)
	}

	var b strings.Builder
	b.WriteString(t.tr.T("providers.title"))
	for _, country := range slices.Sorted(maps.Keys(byCountry)) {
		b.WriteString("\n\n")
		b.WriteString(country)
		b.WriteString(":\n")
		b.WriteString(strings.Join(byCountry[country], "\n"))
	}
	return Message(b.String()), nil
}

func (d *Dispatcher) logout(ctx context.Context, t *Turn, _ cascade.Groups) (Result, error) {
	provider := t.State.Auth.Provider.Name
	if err := d.flow.Logout(ctx, t.State.Credential, t.State.Auth); err != nil {
		return Result{}, err
	}
	t.State.EndLogin()
	return Message(t.tr.T("logout.done", i18n.M{"provider": provider})), nil
}

func (d *Dispatcher) info(ctx context.Context, t *Turn, _ cascade.Groups) (Result, error) {
	info, err := d.api.ClientInfo(ctx, t.State.Credential, t.State.SessionKey())
	if err != nil {
		return Result{}, err
	}
	return Message(t.tr.T("info", i18n.M{
		"name":     info.Name,
		"document": info.Document,
		"email":    info.Email,
	})), nil
}

func (d *Dispatcher) accounts(ctx context.Context, t *Turn, _ cascade.Groups) (Result, error) {
	accounts, err := t.State.LoadAccounts(ctx, d.api)
	if err != nil {
		return Result{}, err
	}
	if len(accounts) == 0 {
		return Message(t.tr.T("accounts.none")), nil
	}

	lines := []string{t.tr.Tn("accounts.count", len(accounts))}
	for _, a := range accounts {
		lines = append(lines, t.tr.T("accounts.line", i18n.M{
			"name":    a.Name,
			"number":  a.Number,
			"balance": t.tr.Money(a.Currency, a.Balance),
		}))
	}
	return Message(strings.Join(lines, "\n")), nil
}

func (d *Dispatcher) cards(ctx context.Context, t *Turn, _ cascade.Groups) (Result, error) {
	cards, err := t.State.LoadCards(ctx, d.api)
	if err != nil {
		return Result{}, err
	}
	if len(cards) == 0 {
		return Message(t.tr.T("cards.none")), nil
	}

	local := localCurrency(t.State.Auth.Provider.Country)
	lines := []string{t.tr.Tn("cards.count", len(cards))}
	for _, c := range cards {
		lines = append(lines, t.tr.T("cards.line", i18n.M{
			"name":   c.Name,
			"number": c.Number,
			"local":  t.tr.Money(local, c.BalanceLocal),
			"dollar": t.tr.Money("USD", c.BalanceDollar),
		}))
	}
	return Message(strings.Join(lines, "\n")), nil
}

func (d *Dispatcher) accountMovements(ctx context.Context, t *Turn, g cascade.Groups) (Result, error) {
	accounts, err := t.State.LoadAccounts(ctx, d.api)
	if err != nil {
		return Result{}, err
	}
	number := g.Get("account")
	acc, ok := pick(accounts, number, func(a banking.Account) string { return a.Number })
	if !ok {
		return Result{}, t.notPicked("accounts", number, len(accounts))
	}

	rng, err := t.dateRange(strip(t.Text, number))
	if err != nil {
		return Result{}, err
	}

	movements, err := d.api.AccountMovements(ctx, t.State.Credential, t.State.SessionKey(), banking.MovementQuery{
		Number:   acc.Number,
		Currency: acc.Currency,
		Start:    rng.Start,
		End:      rng.End,
	})
	if err != nil {
		return Result{}, err
	}
	return Message(t.movements(movements, rng, acc.Currency)), nil
}

func (d *Dispatcher) cardMovements(ctx context.Context, t *Turn, g cascade.Groups) (Result, error) {
	cards, err := t.State.LoadCards(ctx, d.api)
	if err != nil {
		return Result{}, err
	}
	number := g.Get("card")
	card, ok := pick(cards, number, func(c banking.Card) string { return c.Number })
	if !ok {
		return Result{}, t.notPicked("cards", number, len(cards))
	}

	currency := strings.ToUpper(g.Get("currency"))
	if currency == "" {
		currency = localCurrency(t.State.Auth.Provider.Country)
	}
	rng, err := t.dateRange(strip(t.Text, number))
	if err != nil {
		return Result{}, err
	}

	movements, err := d.api.CardMovements(ctx, t.State.Credential, t.State.SessionKey(), banking.MovementQuery{
		Number:   card.Number,
		Currency: currency,
		Start:    rng.Start,
		End:      rng.End,
	})
	if err != nil {
		return Result{}, err
	}
	return Message(t.movements(movements, rng, currency)), nil
}

func (d *Dispatcher) branches(atms bool) cascade.Handler[*Turn, Result] {
	section, fetch := "branches", d.api.Branches
	if atms {
		section, fetch = "atms", d.api.ATMs
	}

	return func(ctx context.Context, t *Turn, g cascade.Groups) (Result, error) {
		zip := g.Get("zip")
		if zip == "" {
			return Result{}, reject(ReasonMissingZip, t.tr.T(section+".zip"))
		}

		list, err := fetch(ctx, t.State.Credential, t.State.Auth.Provider.Code, zip)
		if err != nil {
			return Result{}, err
		}
		if len(list) == 0 {
			return Message(t.tr.T(section+".none", i18n.M{"zip": zip})), nil
		}

		lines := []string{t.tr.T(section+".title", i18n.M{"zip": zip})}
		for _, b := range list {
			lines = append(lines, t.tr.T("branches.line", i18n.M{"name": b.Name, "address": b.Address}))
		}
		return Message(strings.Join(lines, "\n")), nil
	}
}

// dateRange resolves the range in text, as a rejection when it is invalid.
func (t *Turn) dateRange(text string) (daterange.Range, error) {
	rng, err := t.dates.Resolve(text)
	switch {
	case err == nil:
		return rng, nil
	case errors.Is(err, daterange.ErrOrder):
		return rng, reject(ReasonDateOrder, t.tr.T("dates.order"))
	case errors.Is(err, daterange.ErrFuture):
		return rng, reject(ReasonDateFuture, t.tr.T("dates.future"))
	default:
		return rng, reject(ReasonDateUnrecognized, t.tr.T("dates.unrecognized"))
	}
}

func (t *Turn) movements(movements []banking.Movement, rng daterange.Range, currency string) string {
	period := i18n.M{"start": t.tr.Date(rng.Start), "end": t.tr.Date(rng.End)}
	if len(movements) == 0 {
		return t.tr.T("movements.none", period)
	}

	lines := []string{t.tr.T("movements.title", period)}
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Amount())
		lines = append(lines, t.tr.T("movements.line", i18n.M{
			"date":   m.Date,
			"detail": m.Detail,
			"amount": t.tr.Money(currency, m.Amount()),
		}))
	}
	lines = append(lines, "= "+t.tr.Money(currency, total))
	return strings.Join(lines, "\n")
}

// notPicked explains why no account or card could be chosen.
func (t *Turn) notPicked(section, number string, available int) *Rejection {
	switch {
	case available == 0:
		return reject(ReasonNotFound, t.tr.T(section+".none"))
	case number != "":
		return reject(ReasonNotFound, t.tr.T(section+".not_found", i18n.M{"number": number}))
	default:
		return reject(ReasonAmbiguous, t.tr.T(section+".ambiguous"))
	}
}

// pick selects the item whose number matches, ignoring dashes and spaces.
// Without a number, the only item is chosen.
func pick[T any](items []T, number string, numberOf func(T) string) (T, bool) {
	var zero T
	if number == "" {
		if len(items) == 1 {
			return items[0], true
		}
		return zero, false
	}

	want := digits(number)
	for _, it := range items {
		if got := digits(numberOf(it)); got == want || (len(want) >= 4 && strings.HasSuffix(got, want)) {
			return it, true
		}
	}
	return zero, false
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// strip removes the first occurrence of an account or card number so it is
// not mistaken for a date.
func strip(text, number string) string {
	if number == "" {
		return text
	}
	return strings.Replace(text, number, " ", 1)
}
