package i18n

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLang is used when no default language is configured.
const DefaultLang = "en"

// M holds placeholder values.
type M map[string]any

// ErrEmptyLanguage is returned when an option receives an empty language code.
var ErrEmptyLanguage = errors.New("i18n: language cannot be empty")

// I18n is an immutable translation catalog.
type I18n struct {
	// key format: "lang:namespace:key.path"
	translations map[string]string
	plurals      map[string]PluralRule
	defaultLang  string
	languages    []string
	matcher      language.Matcher
	missing      func(lang, namespace, key string)
}

// Option configures an I18n during construction.
type Option func(*I18n) error

// New creates a catalog from the given options.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		plurals:      make(map[string]PluralRule),
		defaultLang:  DefaultLang,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	langs := []string{i.defaultLang}
	for _, l := range i.languages {
		if !slices.Contains(langs, l) {
			langs = append(langs, l)
		}
	}
	i.languages = langs

	tags := make([]language.Tag, 0, len(langs))
	for _, l := range langs {
		tags = append(tags, language.Make(l))
	}
	i.matcher = language.NewMatcher(tags)

	return i, nil
}

// WithDefaultLanguage sets the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithMissingKeyHandler registers a callback for keys missing in every language.
func WithMissingKeyHandler(fn func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.missing = fn
		return nil
	}
}

// WithPluralRule overrides the plural rule of a language.
func WithPluralRule(lang string, rule PluralRule) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if rule == nil {
			return errors.New("i18n: plural rule cannot be nil")
		}
		i.plurals[lang] = rule
		return nil
	}
}

// WithTranslations loads a nested catalog for lang and namespace.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if namespace == "" {
			return errors.New("i18n: namespace cannot be empty")
		}
		for key, value := range flatten(translations, "") {
			i.translations[buildKey(lang, namespace, key)] = value
		}
		if !slices.Contains(i.languages, lang) {
			i.languages = append(i.languages, lang)
		}
		if _, ok := i.plurals[lang]; !ok {
			i.plurals[lang] = PluralRuleFor(lang)
		}
		return nil
	}
}

// WithYAML loads a nested YAML catalog for lang and namespace.
func WithYAML(lang, namespace string, data []byte) Option {
	return func(i *I18n) error {
		var tr map[string]any
		if err := yaml.Unmarshal(data, &tr); err != nil {
			return fmt.Errorf("i18n: parse %s catalog: %w", lang, err)
		}
		return WithTranslations(lang, namespace, tr)(i)
	}
}

// T returns the translation of key, with placeholders replaced.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	tr, ok := i.lookup(lang, namespace, key)
	if !ok {
		return key
	}
	return Replace(tr, merge(placeholders...))
}

// Tn returns the plural form of key for n. The count is available as %{count}.
func (i *I18n) Tn(lang, namespace, key string, n int, placeholders ...M) string {
	rule, ok := i.plurals[lang]
	if !ok {
		rule = PluralRuleFor(i.defaultLang)
	}
	form := rule(n)

	tr, ok := i.lookup(lang, namespace, key+"."+form)
	if !ok && form != PluralOther {
		tr, ok = i.lookup(lang, namespace, key+"."+PluralOther)
	}
	if !ok {
		return key
	}

	ph := merge(placeholders...)
	if _, set := ph["count"]; !set {
		ph["count"] = n
	}
	return Replace(tr, ph)
}

// Languages returns the configured languages, default first.
func (i *I18n) Languages() []string {
	return i.languages
}

// DefaultLanguage returns the fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

// Supports reports whether lang has a catalog.
func (i *I18n) Supports(lang string) bool {
	return slices.Contains(i.languages, lang)
}

// Match returns the supported language closest to an Accept-Language header.
func (i *I18n) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return i.defaultLang
	}
	_, idx, conf := i.matcher.Match(tags...)
	if conf == language.No {
		return i.defaultLang
	}
	return i.languages[idx]
}

func (i *I18n) lookup(lang, namespace, key string) (string, bool) {
	if tr, ok := i.translations[buildKey(lang, namespace, key)]; ok {
		return tr, true
	}
	if lang != i.defaultLang {
		if tr, ok := i.translations[buildKey(i.defaultLang, namespace, key)]; ok {
			return tr, true
		}
	}
	if i.missing != nil {
		i.missing(lang, namespace, key)
	}
	return "", false
}

// Replace substitutes %{name} placeholders. Unknown placeholders are kept.
func Replace(template string, placeholders M) string {
	if len(placeholders) == 0 || !strings.Contains(template, "%{") {
		return template
	}
	pairs := make([]string, 0, len(placeholders)*2)
	for k, v := range placeholders {
		pairs = append(pairs, "%{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}

func merge(placeholders ...M) M {
	out := make(M)
	for _, p := range placeholders {
		maps.Copy(out, p)
	}
	return out
}

func flatten(data map[string]any, prefix string) map[string]string {
	out := make(map[string]string)
	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[full] = v
		case map[string]any:
			maps.Copy(out, flatten(v, full))
		case map[string]string:
			for k, s := range v {
				out[full+"."+k] = s
			}
		case nil:
		default:
			out[full] = fmt.Sprint(v)
		}
	}
	return out
}
