package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	languageContextKey = "app_language"
	defaultLanguage    = "en"
)

var supportedLanguages = map[string]bool{
	"en": true,
	"uk": true,
}

// AppLanguage resolves the client language from the App-Language header,
// falling back to Accept-Language and finally to English. The resolved value
// drives email template selection downstream.
func AppLanguage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		lang := normalizeLanguage(c.Request().Header.Get("App-Language"))
		if lang == "" {
			lang = normalizeLanguage(c.Request().Header.Get("Accept-Language"))
		}
		if lang == "" {
			lang = defaultLanguage
		}

		c.Set(languageContextKey, lang)
		return next(c)
	}
}

// LanguageFromContext returns the language resolved by AppLanguage, or
// English when the middleware did not run.
func LanguageFromContext(c echo.Context) string {
	if lang, ok := c.Get(languageContextKey).(string); ok && lang != "" {
		return lang
	}
	return defaultLanguage
}

func normalizeLanguage(header string) string {
	if header == "" {
		return ""
	}

	// Accept-Language may carry a weighted list; the first tag wins.
	first := strings.TrimSpace(strings.SplitN(header, ",", 2)[0])
	tag := strings.ToLower(strings.SplitN(first, "-", 2)[0])
	tag = strings.SplitN(tag, ";", 2)[0]
	if supportedLanguages[tag] {
		return tag
	}
	return ""
}
