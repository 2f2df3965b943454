package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/message"
)

// CookieName is the cookie holding an explicitly chosen locale.
const CookieName = "locale"

// Source proposes a locale for a request. ok is false when it has no opinion.
type Source func(r *http.Request) (locale string, ok bool)

// Selector resolves the display locale by asking its sources in order.
// The first supported proposal wins; otherwise the default locale is used.
type Selector struct {
	locales *Locales
	sources []Source
}

func NewSelector(locales *Locales, sources ...Source) *Selector {
	return &Selector{locales: locales, sources: sources}
}

// Locales returns the locale set the selector chooses from.
func (s *Selector) Locales() *Locales {
	return s.locales
}

// Select returns the locale for r.
func (s *Selector) Select(r *http.Request) string {
	for _, src := range s.sources {
		if loc, ok := src(r); ok && s.locales.Supported(loc) {
			return loc
		}
	}
	return s.locales.Default()
}

// FromCookie proposes the value of the named cookie.
func FromCookie(name string) Source {
	return func(r *http.Request) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", false
		}
		return c.Value, true
	}
}

// FromAcceptLanguage proposes the best match between the Accept-Language header and the supported locales.
func FromAcceptLanguage(l *Locales) Source {
	return func(r *http.Request) (string, bool) {
		return l.Match(r.Header.Get("Accept-Language"))
	}
}

type ctxKey struct{}

type resolved struct {
	locale  string
	printer *message.Printer
}

// WithLocale stores the request's locale and its printer.
func WithLocale(ctx context.Context, locale string, p *message.Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, resolved{locale: locale, printer: p})
}

// LocaleFrom returns the locale resolved for the request, or "".
func LocaleFrom(ctx context.Context) string {
	v, _ := ctx.Value(ctxKey{}).(resolved)
	return v.locale
}

// T translates key for the request's locale. Without a resolved locale the key is returned.
func T(ctx context.Context, key string) string {
	v, ok := ctx.Value(ctxKey{}).(resolved)
	if !ok || v.printer == nil {
		return key
	}
	return v.printer.Sprintf(key)
}
