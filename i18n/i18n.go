// Package i18n translates the fixed labels printed on each page.
//
// The catalog is built once by Setup and handed to the page composer as an
// immutable Localizer; nothing here is initialized lazily.
package i18n

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys (the English text doubles as the key).
const (
	MsgTitle      = "Wi-Fi QRCode"
	MsgNoPassword = "No password"
	MsgSecurity   = "Security"
	MsgNone       = "None"
	MsgHidden     = "Hidden Wi-Fi"
	MsgHiddenHint = "Not shown in the Wi-Fi list."
)

// System selects the language from the process environment.
const System = "system"

var translations = map[string]map[string]string{
	"en": {
		MsgTitle:      "Wi-Fi QRCode",
		MsgNoPassword: "No password",
		MsgSecurity:   "Security",
		MsgNone:       "None",
		MsgHidden:     "Hidden Wi-Fi",
		MsgHiddenHint: "Not shown in the Wi-Fi list.",
	},
	"fr": {
		MsgTitle:      "QRCode Wi-Fi",
		MsgNoPassword: "Pas de mot de passe",
		MsgSecurity:   "Sécurité",
		MsgNone:       "Aucune",
		MsgHidden:     "Wi-Fi masqué",
		MsgHiddenHint: "N'apparaît pas dans la liste des Wi-Fi.",
	},
	"zh": {
		MsgTitle:      "Wi-Fi 二维码",
		MsgNoPassword: "无密码",
		MsgSecurity:   "安全性",
		MsgNone:       "无",
		MsgHidden:     "隐藏的 Wi-Fi",
		MsgHiddenHint: "不会出现在 Wi-Fi 列表中。",
	},
}

// Catalog is the set of available translations.
type Catalog struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

// Setup builds the translation catalog.
func Setup() (*Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	tags := []language.Tag{language.English}
	for _, lang := range langs {
		tag := language.MustParse(lang)
		for key, msg := range translations[lang] {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("i18n: register %s/%q: %w", lang, key, err)
			}
		}
		if tag != language.English {
			tags = append(tags, tag)
		}
	}
	return &Catalog{builder: b, tags: tags, matcher: language.NewMatcher(tags)}, nil
}

// Languages lists the selectable languages, "system" first.
func (c *Catalog) Languages() []string {
	out := []string{System}
	for _, t := range c.tags {
		out = append(out, t.String())
	}
	return out
}

// Localizer translates message keys for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// Localizer returns the localizer for lang ("system", "fr", "zh-CN", ...).
// Unknown languages fall back to English.
func (c *Catalog) Localizer(lang string) (Localizer, error) {
	if strings.EqualFold(strings.TrimSpace(lang), System) || strings.TrimSpace(lang) == "" {
		lang = systemLanguage()
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return Localizer{}, fmt.Errorf("i18n: invalid language %q: %w", lang, err)
	}
	_, idx, _ := c.matcher.Match(tag)
	matched := c.tags[idx]
	return Localizer{tag: matched, printer: message.NewPrinter(matched, message.Catalog(c.builder))}, nil
}

// T translates key.
func (l Localizer) T(key string) string {
	if l.printer == nil {
		return key
	}
	return l.printer.Sprintf(key)
}

// Language returns the resolved language tag.
func (l Localizer) Language() string { return l.tag.String() }

// systemLanguage reads the POSIX locale variables; C/POSIX and unset mean English.
func systemLanguage() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" || v == "" {
			return "en"
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en"
}
