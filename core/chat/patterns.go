package chat

import (
	"embed"
	"fmt"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed patterns/*.yaml
var patternFiles embed.FS

//go:embed locales/*.yaml
var localeFiles embed.FS

// PatternSet maps rule names to trigger patterns for one language.
type PatternSet map[string]string

// LoadPatterns reads the embedded pattern set of every language.
func LoadPatterns() (map[string]PatternSet, error) {
	entries, err := patternFiles.ReadDir("patterns")
	if err != nil {
		return nil, err
	}

	sets := make(map[string]PatternSet, len(entries))
	for _, e := range entries {
		data, err := patternFiles.ReadFile(path.Join("patterns", e.Name()))
		if err != nil {
			return nil, err
		}
		var set PatternSet
		if err := yaml.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("chat: parse patterns %s: %w", e.Name(), err)
		}
		sets[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = set
	}
	return sets, nil
}

// compile compiles the pattern of every named rule. Each rule must have a pattern.
func (p PatternSet) compile(names []string) (map[string]*regexp.Regexp, error) {
	out := make(map[string]*regexp.Regexp, len(names))
	for _, name := range names {
		expr, ok := p[name]
		if !ok || expr == "" {
			return nil, fmt.Errorf("chat: no pattern for rule %q", name)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("chat: rule %q: %w", name, err)
		}
		out[name] = re
	}
	return out, nil
}

// catalogs returns the embedded message catalogs keyed by language.
func catalogs() (map[string][]byte, error) {
	entries, err := localeFiles.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		data, err := localeFiles.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = data
	}
	return out, nil
}
