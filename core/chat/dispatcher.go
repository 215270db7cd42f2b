package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/bankchat/core/auth"
	"github.com/dmitrymomot/bankchat/core/banking"
	"github.com/dmitrymomot/bankchat/core/cascade"
	"github.com/dmitrymomot/bankchat/core/daterange"
	"github.com/dmitrymomot/bankchat/core/i18n"
	"github.com/dmitrymomot/bankchat/core/logger"
	"github.com/dmitrymomot/bankchat/pkg/normalize"
)

const namespace = "bot"

// Rule names used in logs and metrics besides the cascade rules.
const (
	ruleProvider      = "provider"
	ruleProviderLogin = "provider_login"
	ruleFallback      = "fallback"
)

// DefaultHistoryLimit is the number of history messages kept per session.
const DefaultHistoryLimit = 100

// Turn is the evaluation context handed to preconditions and handlers.
type Turn struct {
	State *SessionState
	// Text is the normalized user input.
	Text string

	tr    *i18n.Translator
	dates *daterange.Resolver
	rule  string
}

// Dispatcher turns free text into results. It is safe for concurrent use
// across sessions; turns of one session must be serialized by the caller.
type Dispatcher struct {
	api      banking.API
	flow     *auth.Flow
	catalog  *i18n.I18n
	cascades map[string]*cascade.Cascade[*Turn, Result]

	clock   func() time.Time
	order   daterange.Order
	ordered bool
	history int
	lang    string
	metrics *Metrics
	logger  *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock sets the source of "today" for date ranges.
func WithClock(clock func() time.Time) Option {
	return func(d *Dispatcher) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithDateOrder forces the day/month order of numeric dates for every language.
func WithDateOrder(o daterange.Order) Option {
	return func(d *Dispatcher) {
		d.order = o
		d.ordered = true
	}
}

// WithHistoryLimit caps the stored conversation history. Zero keeps everything.
func WithHistoryLimit(n int) Option {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.history = n
		}
	}
}

// WithDefaultLanguage sets the language used when a request matches none.
func WithDefaultLanguage(lang string) Option {
	return func(d *Dispatcher) {
		if lang != "" {
			d.lang = lang
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher builds the per-language rule cascades from the embedded
// pattern sets and message catalogs.
func NewDispatcher(api banking.API, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		api:     api,
		clock:   time.Now,
		history: DefaultHistoryLimit,
		lang:    i18n.DefaultLang,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.flow = auth.NewFlow(api, auth.WithLogger(d.logger))

	cats, err := catalogs()
	if err != nil {
		return nil, err
	}
	catOpts := []i18n.Option{i18n.WithDefaultLanguage(d.lang)}
	for lang, data := range cats {
		catOpts = append(catOpts, i18n.WithYAML(lang, namespace, data))
	}
	if d.catalog, err = i18n.New(catOpts...); err != nil {
		return nil, err
	}

	sets, err := LoadPatterns()
	if err != nil {
		return nil, err
	}
	d.cascades = make(map[string]*cascade.Cascade[*Turn, Result], len(sets))
	for lang, set := range sets {
		triggers, err := set.compile(ruleOrder)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", lang, err)
		}
		c, err := cascade.NewChecked(d.rules(triggers), cascade.WithLogger[*Turn, Result](d.logger))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", lang, err)
		}
		d.cascades[lang] = c
	}
	if _, ok := d.cascades[d.lang]; !ok {
		return nil, fmt.Errorf("chat: no pattern set for default language %q", d.lang)
	}

	return d, nil
}

// Language returns the supported language closest to an Accept-Language header.
func (d *Dispatcher) Language(acceptLanguage string) string {
	return d.catalog.Match(acceptLanguage)
}

// Translator returns the bot message translator for lang.
func (d *Dispatcher) Translator(lang string) *i18n.Translator {
	return i18n.NewTranslator(d.catalog, lang, namespace)
}

// InitializeSession validates credential by listing the providers and seeds
// a new SessionState with them and a welcome message.
func (d *Dispatcher) InitializeSession(ctx context.Context, credential, lang string) (*SessionState, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, ErrAuthentication
	}

	providers, err := d.api.ListProviders(ctx, credential)
	if err != nil {
		if errors.Is(err, banking.ErrUnauthorized) || errors.Is(err, banking.ErrKeyNotFound) {
			return nil, errors.Join(ErrAuthentication, err)
		}
		return nil, fmt.Errorf("list providers: %w", err)
	}

	tr := d.Translator(lang)
	state := NewSessionState(credential, tr.Language(), providers)
	state.Record(SenderBot, tr.T("welcome"), d.history)

	d.logger.InfoContext(ctx, "chat session initialized", logger.Count("providers", len(providers)))
	return state, nil
}

// HandleTurn processes one user message. Rejections are returned as results;
// the error is reserved for remote failures and contract violations, in
// which case state is left as it was before the failing call.
func (d *Dispatcher) HandleTurn(ctx context.Context, state *SessionState, raw string) (Result, error) {
	start := time.Now()
	t := d.turn(state, raw)
	state.Record(SenderUser, strings.TrimSpace(raw), d.history)

	res, err := d.dispatch(ctx, t)
	return d.finish(ctx, state, t.rule, start, res, err)
}

// SubmitCredentials feeds a login form submission into the authentication flow.
func (d *Dispatcher) SubmitCredentials(ctx context.Context, state *SessionState, fields map[string]string) (Result, error) {
	start := time.Now()
	tr := d.Translator(state.Language)

	if state.Auth == nil || !state.Auth.State.Awaiting() {
		return d.finish(ctx, state, ruleProviderLogin, start, Result{}, reject(ReasonNoLoginPending, tr.T("login.none_pending")))
	}

	provider := state.Auth.Provider
	err := d.flow.Submit(ctx, state.Credential, state.Auth, fields)

	var (
		res     Result
		missing *auth.MissingFieldsError
	)
	switch {
	case err == nil && state.Auth.IsAuthenticated():
		d.metrics.observeLogin(banking.StatusLoggedIn)
		state.ClearCache()
		res = Message(tr.T("login.success", i18n.M{"provider": provider.Name}))

	case err == nil:
		d.metrics.observeLogin(banking.StatusInteractionRequired)
		res = d.modal(tr, state.Auth)

	case errors.As(err, &missing):
		labels := make([]string, 0, len(missing.Fields))
		for _, name := range missing.Fields {
			labels = append(labels, provider.InteractiveField(name).Label(tr.Language()))
		}
		err = reject(ReasonMissingFields, tr.T("login.missing", i18n.M{"fields": strings.Join(labels, ", ")}))

	case errors.Is(err, auth.ErrWrongCredentials):
		d.metrics.observeLogin(banking.StatusWrongCredentials)
		err = reject(ReasonWrongCredentials, tr.T("login.wrong_credentials"))

	case errors.Is(err, auth.ErrProviderUnavailable):
		d.metrics.observeLogin("unavailable")
		state.EndLogin()
		err = reject(ReasonProviderUnavailable, tr.T("login.unavailable"))

	default:
		d.metrics.observeLogin("error")
	}

	return d.finish(ctx, state, ruleProviderLogin, start, res, err)
}

func (d *Dispatcher) turn(state *SessionState, raw string) *Turn {
	tr := d.Translator(state.Language)
	opts := []daterange.Option{daterange.WithLanguage(tr.Language()), daterange.WithClock(d.clock)}
	if d.ordered {
		opts = append(opts, daterange.WithOrder(d.order))
	}
	return &Turn{
		State: state,
		Text:  normalize.Text(raw),
		tr:    tr,
		dates: daterange.New(opts...),
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, t *Turn) (Result, error) {
	if p, ok := t.State.ProviderByName(t.Text); ok && !t.State.IsAuthenticated() {
		t.rule = ruleProvider
		return d.selectProvider(ctx, t, p)
	}

	c, ok := d.cascades[t.tr.Language()]
	if !ok {
		c = d.cascades[d.lang]
	}
	res, matched, err := c.Evaluate(ctx, t, t.Text)
	if !matched {
		t.rule = ruleFallback
		return Message(t.tr.T("fallback")), nil
	}
	return res, err
}

// finish converts rejections to results, records metrics and history, and
// logs faults.
func (d *Dispatcher) finish(ctx context.Context, state *SessionState, rule string, start time.Time, res Result, err error) (Result, error) {
	if rej, ok := AsRejection(err); ok {
		res, err = Rejected(rej), nil
	}

	if err != nil {
		d.metrics.observeTurn(rule, "error", time.Since(start))
		d.logger.ErrorContext(ctx, "chat turn failed", logger.Rule(rule), logger.Error(err))
		return Result{}, err
	}

	d.metrics.observeTurn(rule, string(res.Kind), time.Since(start))
	d.logger.DebugContext(ctx, "chat turn handled", logger.Rule(rule), slog.String("kind", string(res.Kind)))
	state.Record(SenderBot, res.Text, d.history)
	return res, nil
}

func (d *Dispatcher) selectProvider(ctx context.Context, t *Turn, p banking.Provider) (Result, error) {
	sess, err := d.flow.Select(ctx, t.State.Credential, t.State.Auth, p.Code)
	if err != nil {
		return Result{}, err
	}
	if sess.Provider.Name == "" {
		sess.Provider.Name = p.Name
	}
	t.State.Auth = sess
	t.State.ClearCache()
	return d.modal(t.tr, sess), nil
}

func (d *Dispatcher) modal(tr *i18n.Translator, sess *auth.Session) Result {
	m := Modal{
		Title:  tr.T("login.prompt", i18n.M{"provider": sess.Provider.Name}),
		Logo:   sess.Provider.Logo,
		Prompt: sess.Prompt,
		Fields: sess.Expected,
	}
	res := ModalRequest(m)
	if res.Text == "" {
		res.Text = m.Title
	}
	return res
}

// ruleOrder is the evaluation order of the cascade. Movement rules precede
// the plain account and card listings they overlap with.
var ruleOrder = []string{
	"greeting",
	"help",
	"providers",
	"login",
	"logout",
	"info",
	"card_movements",
	"account_movements",
	"accounts",
	"cards",
	"branches",
	"atms",
}

type ruleDef struct {
	when   cascade.Precondition[*Turn]
	handle cascade.Handler[*Turn, Result]
}

func (d *Dispatcher) rules(triggers map[string]*regexp.Regexp) []cascade.Rule[*Turn, Result] {
	defs := map[string]ruleDef{
		"greeting":          {nil, d.message("greeting")},
		"help":              {nil, d.message("help")},
		"providers":         {nil, d.providers},
		"login":             {isNotAuthenticated, d.message("login.hint")},
		"logout":            {isAuthenticated, d.logout},
		"info":              {isAuthenticated, d.info},
		"card_movements":    {isAuthenticated, d.cardMovements},
		"account_movements": {isAuthenticated, d.accountMovements},
		"accounts":          {isAuthenticated, d.accounts},
		"cards":             {isAuthenticated, d.cards},
		"branches":          {hasProvider, d.branches(false)},
		"atms":              {hasProvider, d.branches(true)},
	}

	rules := make([]cascade.Rule[*Turn, Result], 0, len(ruleOrder))
	for _, name := range ruleOrder {
		def := defs[name]
		rules = append(rules, cascade.Rule[*Turn, Result]{
			Name:    name,
			Trigger: triggers[name],
			When:    tagged(name, def.when),
			Handle: func(ctx context.Context, t *Turn, g cascade.Groups) (Result, error) {
				t.rule = name
				return def.handle(ctx, t, g)
			},
		})
	}
	return rules
}

// tagged records the rule name on the turn before evaluating when, so an
// aborting precondition is attributed to its rule.
func tagged(name string, when cascade.Precondition[*Turn]) cascade.Precondition[*Turn] {
	if when == nil {
		return nil
	}
	return func(t *Turn) (bool, error) {
		t.rule = name
		return when(t)
	}
}
