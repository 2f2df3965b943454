// Package i18n holds the supported locales, the message catalog and the
// per-request locale selection.
//
// Locales use the underscore form stored on users and in the locale cookie
// (en_US, zh_Hans_CN); they are converted to BCP 47 tags for matching.
package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var ErrUnknownLocale = errors.New("i18n: unknown locale")

// Tag converts an underscore locale (zh_Hans_CN) to a language tag (zh-Hans-CN).
func Tag(locale string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(locale, "_", "-"))
}

// Locales is immutable after construction and safe for concurrent use.
type Locales struct {
	supported []string
	def       string
	tags      []language.Tag
	matcher   language.Matcher
	catalog   *catalog.Builder
}

// New builds the locale set. def must be one of supported.
func New(supported []string, def string) (*Locales, error) {
	l := &Locales{def: def}

	defIdx := -1
	for i, s := range supported {
		tag, err := Tag(s)
		if err != nil {
			return nil, fmt.Errorf("i18n: parse locale %q: %w", s, err)
		}
		if s == def {
			defIdx = i
		}
		l.supported = append(l.supported, s)
		l.tags = append(l.tags, tag)
	}
	if defIdx < 0 {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownLocale, def)
	}

	l.matcher = language.NewMatcher(l.tags)
	l.catalog = catalog.NewBuilder(catalog.Fallback(l.tags[defIdx]))
	for i, s := range l.supported {
		for key, text := range translationsFor(s) {
			if err := l.catalog.SetString(l.tags[i], key, text); err != nil {
				return nil, fmt.Errorf("i18n: catalog %s: %w", s, err)
			}
		}
	}
	return l, nil
}

// Default is the configured fallback locale.
func (l *Locales) Default() string {
	return l.def
}

// All returns the supported locales in configured order.
func (l *Locales) All() []string {
	return append([]string(nil), l.supported...)
}

// Supported reports whether locale is one of the configured locales.
func (l *Locales) Supported(locale string) bool {
	for _, s := range l.supported {
		if s == locale {
			return true
		}
	}
	return false
}

// Match returns the best supported locale for an Accept-Language header.
// ok is false when nothing in the header matches.
func (l *Locales) Match(acceptLanguage string) (string, bool) {
	if acceptLanguage == "" {
		return "", false
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "", false
	}
	_, idx, conf := l.matcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	return l.supported[idx], true
}

// Printer returns a printer translating into locale, or the default locale if unknown.
func (l *Locales) Printer(locale string) *message.Printer {
	if !l.Supported(locale) {
		locale = l.def
	}
	tag, _ := Tag(locale)
	return message.NewPrinter(tag, message.Catalog(l.catalog))
}
