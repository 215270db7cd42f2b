package cascade_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bankchat/core/cascade"
)

var errMustLogin = errors.New("log in first")

type state struct {
	calls []string
}

func echoGroups(name string) cascade.Handler[*state, cascade.Groups] {
	return func(_ context.Context, s *state, g cascade.Groups) (cascade.Groups, error) {
		s.calls = append(s.calls, name)
		return g, nil
	}
}

func unconditional() cascade.Precondition[*state] {
	return nil
}

func holds(v bool) cascade.Precondition[*state] {
	return func(*state) (bool, error) { return v, nil }
}

func fails(err error) cascade.Precondition[*state] {
	return func(*state) (bool, error) { return false, err }
}

func single(pattern string, when cascade.Precondition[*state]) *cascade.Cascade[*state, cascade.Groups] {
	return cascade.New([]cascade.Rule[*state, cascade.Groups]{{
		Name:    "only",
		Trigger: regexp.MustCompile(pattern),
		When:    when,
		Handle:  echoGroups("only"),
	}})
}

func TestCascade_Evaluate_Groups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		want    cascade.Groups
		matched bool
	}{
		{"any character", ".", cascade.Groups{}, true},
		{"literal word", "this", cascade.Groups{}, true},
		{"optional space", "is ?a", cascade.Groups{}, true},
		{"no match", "abcdef", nil, false},
		{"single group", "(?P<group1>test)", cascade.Groups{"group1": "test"}, true},
		{"two groups", "(?P<g1>this).*?(?P<g2>test)", cascade.Groups{"g1": "this", "g2": "test"}, true},
		{"optional group absent", "(?P<g1>this)(?P<g2> never)?", cascade.Groups{"g1": "this", "g2": ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, when := range []cascade.Precondition[*state]{unconditional(), holds(true)} {
				got, ok, err := single(tt.pattern, when).Evaluate(context.Background(), &state{}, "hi this is a test")
				require.NoError(t, err)
				assert.Equal(t, tt.matched, ok)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCascade_Evaluate_Preconditions(t *testing.T) {
	t.Parallel()

	patterns := []string{".", "this", "(?P<group1>test)", "(?P<g1>this).*?(?P<g2>test)"}

	t.Run("skips rule when precondition does not hold", func(t *testing.T) {
		t.Parallel()

		for _, p := range append(patterns, "abcdef") {
			s := &state{}
			got, ok, err := single(p, holds(false)).Evaluate(context.Background(), s, "hi this is a test")
			require.NoError(t, err)
			assert.False(t, ok, p)
			assert.Nil(t, got)
			assert.Empty(t, s.calls)
		}
	})

	t.Run("propagates precondition errors", func(t *testing.T) {
		t.Parallel()

		for _, p := range patterns {
			s := &state{}
			_, _, err := single(p, fails(errMustLogin)).Evaluate(context.Background(), s, "hi this is a test")
			assert.ErrorIs(t, err, errMustLogin, p)
			assert.Empty(t, s.calls)
		}
	})

	t.Run("does not evaluate precondition when trigger misses", func(t *testing.T) {
		t.Parallel()

		_, ok, err := single("abcdef", fails(errMustLogin)).Evaluate(context.Background(), &state{}, "hi this is a test")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCascade_Evaluate_Order(t *testing.T) {
	t.Parallel()

	build := func(rules ...cascade.Rule[*state, cascade.Groups]) *cascade.Cascade[*state, cascade.Groups] {
		return cascade.New(rules)
	}
	rule := func(name, pattern string, when cascade.Precondition[*state]) cascade.Rule[*state, cascade.Groups] {
		return cascade.Rule[*state, cascade.Groups]{
			Name:    name,
			Trigger: regexp.MustCompile(pattern),
			When:    when,
			Handle:  echoGroups(name),
		}
	}

	t.Run("first matching rule wins", func(t *testing.T) {
		t.Parallel()

		s := &state{}
		c := build(rule("first", "test", nil), rule("second", "test", nil))
		_, ok, err := c.Evaluate(context.Background(), s, "a test")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"first"}, s.calls)
	})

	t.Run("rule with failing precondition yields to later rule", func(t *testing.T) {
		t.Parallel()

		s := &state{}
		c := build(rule("gated", "test", holds(false)), rule("open", "test", nil), rule("late", "test", nil))
		_, ok, err := c.Evaluate(context.Background(), s, "a test")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"open"}, s.calls)
	})

	t.Run("error in earlier precondition stops scanning", func(t *testing.T) {
		t.Parallel()

		s := &state{}
		c := build(rule("strict", "test", fails(errMustLogin)), rule("open", "test", nil))
		_, _, err := c.Evaluate(context.Background(), s, "a test")
		assert.ErrorIs(t, err, errMustLogin)
		assert.Empty(t, s.calls)
	})

	t.Run("non matching earlier rule is ignored", func(t *testing.T) {
		t.Parallel()

		s := &state{}
		c := build(rule("other", "nothing", fails(errMustLogin)), rule("open", "test", nil))
		_, ok, err := c.Evaluate(context.Background(), s, "a test")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"open"}, s.calls)
	})

	t.Run("at most one handler runs for every ordering", func(t *testing.T) {
		t.Parallel()

		rules := []cascade.Rule[*state, cascade.Groups]{
			rule("a", "x", holds(false)),
			rule("b", "x", nil),
			rule("c", "y", nil),
			rule("d", "x|y", holds(true)),
		}
		perms := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {0, 3, 1, 2}}

		for _, perm := range perms {
			ordered := make([]cascade.Rule[*state, cascade.Groups], len(perm))
			for i, p := range perm {
				ordered[i] = rules[p]
			}

			s := &state{}
			_, ok, err := build(ordered...).Evaluate(context.Background(), s, "x y")
			require.NoError(t, err)
			require.True(t, ok)
			require.Len(t, s.calls, 1)

			// expected winner: first rule by position whose trigger matches and precondition holds
			for _, r := range ordered {
				if r.Name != "a" {
					assert.Equal(t, r.Name, s.calls[0])
					break
				}
			}
		}
	})

}

func TestCascade_HandlerError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c := cascade.New([]cascade.Rule[*state, string]{{
		Name:    "failing",
		Trigger: regexp.MustCompile("go"),
		Handle: func(context.Context, *state, cascade.Groups) (string, error) {
			return "", boom
		},
	}})

	_, ok, err := c.Evaluate(context.Background(), &state{}, "go")
	assert.True(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestNewChecked(t *testing.T) {
	t.Parallel()

	t.Run("rejects incomplete rules", func(t *testing.T) {
		t.Parallel()

		_, err := cascade.NewChecked([]cascade.Rule[*state, string]{{Name: "no-trigger"}})
		assert.ErrorIs(t, err, cascade.ErrInvalidRule)
	})

	t.Run("new panics on incomplete rules", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			cascade.New([]cascade.Rule[*state, string]{{Trigger: regexp.MustCompile("x")}})
		})
	})
}

func TestGroups(t *testing.T) {
	t.Parallel()

	g := cascade.Groups{"zip": "1425", "account": ""}
	assert.Equal(t, "1425", g.Get("zip"))
	assert.True(t, g.Has("zip"))
	assert.False(t, g.Has("account"))
	assert.Equal(t, "", g.Get("missing"))
}
