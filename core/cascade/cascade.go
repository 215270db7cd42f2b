package cascade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
)

// ErrInvalidRule is returned by NewChecked when a rule lacks a name, trigger or handler.
var ErrInvalidRule = errors.New("cascade: invalid rule")

// Groups holds the named capture groups of a trigger match.
type Groups map[string]string

// Get returns the value of a named group, or "" when it did not participate.
func (g Groups) Get(name string) string {
	return g[name]
}

// Has reports whether the named group captured a non-empty value.
func (g Groups) Has(name string) bool {
	return g[name] != ""
}

// Precondition gates a rule. Returning false skips the rule and evaluation
// continues; returning an error aborts evaluation with that error.
type Precondition[C any] func(c C) (bool, error)

// Handler produces the result of a matched rule.
type Handler[C, R any] func(ctx context.Context, c C, groups Groups) (R, error)

// Rule binds a trigger pattern to a handler, optionally gated by a precondition.
type Rule[C, R any] struct {
	Name    string
	Trigger *regexp.Regexp
	When    Precondition[C]
	Handle  Handler[C, R]
}

// Cascade is an immutable ordered list of rules. Safe for concurrent use as
// long as the handlers and preconditions are.
type Cascade[C, R any] struct {
	rules  []Rule[C, R]
	logger *slog.Logger
}

// Option configures a Cascade.
type Option[C, R any] func(*Cascade[C, R])

// WithLogger sets the logger used to report matched and skipped rules at debug level.
func WithLogger[C, R any](logger *slog.Logger) Option[C, R] {
	return func(c *Cascade[C, R]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a cascade from rules in evaluation order.
// It panics on an invalid rule; use NewChecked to get an error instead.
func New[C, R any](rules []Rule[C, R], opts ...Option[C, R]) *Cascade[C, R] {
	c, err := NewChecked(rules, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewChecked creates a cascade, validating that every rule is complete.
func NewChecked[C, R any](rules []Rule[C, R], opts ...Option[C, R]) (*Cascade[C, R], error) {
	for _, r := range rules {
		if r.Name == "" || r.Trigger == nil || r.Handle == nil {
			return nil, fmt.Errorf("%w: rule %q needs a name, trigger and handler", ErrInvalidRule, r.Name)
		}
	}

	c := &Cascade[C, R]{
		rules:  append([]Rule[C, R](nil), rules...),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Evaluate runs text through the rules and returns the first accepted
// handler's result. The boolean reports whether a rule claimed the text; it
// is also true when a matched rule's precondition aborted with an error.
func (c *Cascade[C, R]) Evaluate(ctx context.Context, state C, text string) (R, bool, error) {
	var zero R

	for _, r := range c.rules {
		idx := r.Trigger.FindStringSubmatchIndex(text)
		if idx == nil {
			continue
		}

		if r.When != nil {
			ok, err := r.When(state)
			if err != nil {
				c.logger.DebugContext(ctx, "rule precondition failed", slog.String("rule", r.Name), slog.Any("error", err))
				return zero, true, err
			}
			if !ok {
				c.logger.DebugContext(ctx, "rule skipped", slog.String("rule", r.Name))
				continue
			}
		}

		c.logger.DebugContext(ctx, "rule matched", slog.String("rule", r.Name))
		res, err := r.Handle(ctx, state, groups(r.Trigger, text, idx))
		return res, true, err
	}

	return zero, false, nil
}

// groups collects every named group of re; non-participating groups map to "".
func groups(re *regexp.Regexp, text string, idx []int) Groups {
	names := re.SubexpNames()
	g := make(Groups, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		if _, seen := g[name]; seen && idx[2*i] < 0 {
			continue
		}
		if idx[2*i] >= 0 {
			g[name] = text[idx[2*i]:idx[2*i+1]]
		} else {
			g[name] = ""
		}
	}
	return g
}
