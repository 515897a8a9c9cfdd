// Package i18n holds the UI string catalog. Generated game content is
// translated by the generator; this covers only the fixed chrome around
// it. Missing locales and missing keys fall back to English.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Locales lists the supported locale codes with their native display
// names, in selector order.
var Locales = []struct {
	Code string
	Name string
}{
	{"en", "English"},
	{"zh", "中文"},
	{"hi", "हिन्दी"},
	{"id", "Bahasa Indonesia"},
	{"lo", "ລາວ"},
	{"tl", "Tagalog"},
}

// Catalog resolves UI string keys for one active locale.
type Catalog struct {
	strings  map[string]string
	fallback map[string]string
}

// Load builds a catalog for a locale. A locale without a shipped
// catalog file resolves everything through the English fallback.
func Load(locale string) (*Catalog, error) {
	fallback, err := loadFile("en")
	if err != nil {
		return nil, fmt.Errorf("loading fallback catalog: %w", err)
	}
	strs := fallback
	if locale != "en" {
		if loaded, err := loadFile(locale); err == nil {
			strs = loaded
		}
	}
	return &Catalog{strings: strs, fallback: fallback}, nil
}

func loadFile(locale string) (map[string]string, error) {
	data, err := localeFS.ReadFile("locales/" + locale + ".yaml")
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// T resolves a key, interpolating {{name}} placeholders from the
// replacement pairs (name, value, name, value, ...). Unknown keys
// resolve to the key itself so a missing string never blanks the UI.
func (c *Catalog) T(key string, replacements ...string) string {
	s, ok := c.strings[key]
	if !ok {
		if s, ok = c.fallback[key]; !ok {
			return key
		}
	}
	for i := 0; i+1 < len(replacements); i += 2 {
		s = strings.ReplaceAll(s, "{{"+replacements[i]+"}}", replacements[i+1])
	}
	return s
}
