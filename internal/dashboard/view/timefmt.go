package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/ja"
	"golang.org/x/text/language"
)

// DefaultLocale is used when no requested locale is supported.
const DefaultLocale = "en"

var translators = map[string]func() locales.Translator{
	"en": en.New,
	"de": de.New,
	"es": es.New,
	"fr": fr.New,
	"ja": ja.New,
}

// SupportedLocales lists the locales TimeFormatter can render.
func SupportedLocales() []string {
	return []string{"de", "en", "es", "fr", "ja"}
}

// TimeFormatter renders locale-aware times of day in a fixed time zone.
type TimeFormatter struct {
	trans      locales.Translator
	loc        *time.Location
	twelveHour bool
}

func newTimeFormatter(trans locales.Translator, loc *time.Location) *TimeFormatter {
	// 12-hour locales render 13:00 without "13".
	afternoon := trans.FmtTimeMedium(time.Date(2000, 1, 1, 13, 0, 0, 0, time.UTC))
	return &TimeFormatter{
		trans:      trans,
		loc:        loc,
		twelveHour: !strings.Contains(afternoon, "13"),
	}
}

// NewTimeFormatter returns a formatter for locale in the named time zone.
// Unsupported locales fall back to DefaultLocale.
func NewTimeFormatter(locale, timeZone string) (*TimeFormatter, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", timeZone, err)
	}
	return newTimeFormatter(lookup(locale), loc), nil
}

// DefaultTimeFormatter renders in DefaultLocale and UTC.
func DefaultTimeFormatter() *TimeFormatter {
	return newTimeFormatter(lookup(DefaultLocale), time.UTC)
}

// Locale returns the locale the formatter renders in.
func (f *TimeFormatter) Locale() string {
	return f.trans.Locale()
}

// TimeOfDay formats t as a medium-length time of day. In 12-hour locales
// the midnight hour is shown as 12, which the translators render as 0.
func (f *TimeFormatter) TimeOfDay(t time.Time) string {
	t = t.In(f.loc)
	s := f.trans.FmtTimeMedium(t)
	if !f.twelveHour || t.Hour() != 0 {
		return s
	}
	if rest, ok := strings.CutPrefix(s, "0"); ok && (rest == "" || rest[0] < '0' || rest[0] > '9') {
		return "12" + rest
	}
	return s
}

// ForAcceptLanguage returns a formatter for the best supported language in
// an Accept-Language header, or f itself when none matches.
func (f *TimeFormatter) ForAcceptLanguage(header string) *TimeFormatter {
	if strings.TrimSpace(header) == "" {
		return f
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return f
	}
	for _, tag := range tags {
		base, _ := tag.Base()
		if ctor, ok := translators[base.String()]; ok {
			if base.String() == f.trans.Locale() {
				return f
			}
			return newTimeFormatter(ctor(), f.loc)
		}
	}
	return f
}

func lookup(locale string) locales.Translator {
	key := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(key, "-_"); i > 0 {
		key = key[:i]
	}
	if ctor, ok := translators[key]; ok {
		return ctor()
	}
	return translators[DefaultLocale]()
}
