package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocales(t *testing.T) *Locales {
	t.Helper()
	l, err := New([]string{"en_US", "zh_Hans_CN"}, "en_US")
	require.NoError(t, err)
	return l
}

func TestNew_RejectsUnknownDefault(t *testing.T) {
	_, err := New([]string{"en_US"}, "fr_FR")
	assert.ErrorIs(t, err, ErrUnknownLocale)
}

func TestTag(t *testing.T) {
	tag, err := Tag("zh_Hans_CN")
	require.NoError(t, err)
	assert.Equal(t, "zh-Hans-CN", tag.String())
}

func TestLocales_Match(t *testing.T) {
	l := newLocales(t)

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"zh-CN,zh;q=0.9,en;q=0.8", "zh_Hans_CN", true},
		{"en-GB,en;q=0.9", "en_US", true},
		{"fr-FR,de;q=0.5", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := l.Match(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.header)
		}
	}
}

func TestLocales_Printer(t *testing.T) {
	l := newLocales(t)

	assert.Equal(t, "登录成功", l.Printer("zh_Hans_CN").Sprintf("login success"))
	assert.Equal(t, "login success", l.Printer("en_US").Sprintf("login success"))
	assert.Equal(t, "login success", l.Printer("xx_XX").Sprintf("login success"), "unknown locale uses default")
}

func TestSelector_Priority(t *testing.T) {
	l := newLocales(t)
	userLocale := ""
	fromUser := func(*http.Request) (string, bool) { return userLocale, userLocale != "" }
	sel := NewSelector(l, fromUser, FromCookie(CookieName), FromAcceptLanguage(l))

	req := func(cookie, accept string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
		}
		if accept != "" {
			r.Header.Set("Accept-Language", accept)
		}
		return r
	}

	assert.Equal(t, "en_US", sel.Select(req("", "")), "default")
	assert.Equal(t, "zh_Hans_CN", sel.Select(req("", "zh-CN")), "accept-language")
	assert.Equal(t, "en_US", sel.Select(req("en_US", "zh-CN")), "cookie beats header")
	assert.Equal(t, "zh_Hans_CN", sel.Select(req("klingon", "zh-CN")), "unsupported cookie ignored")

	userLocale = "zh_Hans_CN"
	assert.Equal(t, "zh_Hans_CN", sel.Select(req("en_US", "en")), "user preference beats cookie")
}

func TestT(t *testing.T) {
	l := newLocales(t)
	assert.Equal(t, "Page Not Found", T(context.Background(), "Page Not Found"))

	ctx := WithLocale(context.Background(), "zh_Hans_CN", l.Printer("zh_Hans_CN"))
	assert.Equal(t, "页面未找到", T(ctx, "Page Not Found"))
	assert.Equal(t, "zh_Hans_CN", LocaleFrom(ctx))
}
