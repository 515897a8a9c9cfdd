package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookup(t *testing.T) {
	cat, err := Load("en")
	require.NoError(t, err)

	assert.Equal(t, "AI Superpower 2035", cat.T("appTitle"))
	assert.Equal(t, "someUnknownKey", cat.T("someUnknownKey"), "missing keys resolve to themselves")
	assert.Equal(t, "Year 2030", cat.T("yearLabel", "year", "2030"))
}

func TestCatalogFallsBackToEnglish(t *testing.T) {
	// No zh catalog ships; the chrome falls back to English while the
	// generated content is translated by the generator instead.
	cat, err := Load("zh")
	require.NoError(t, err)
	assert.Equal(t, "AI Superpower 2035", cat.T("appTitle"))
}

func TestLocaleRoster(t *testing.T) {
	require.NotEmpty(t, Locales)
	assert.Equal(t, "en", Locales[0].Code)
	seen := make(map[string]bool)
	for _, loc := range Locales {
		assert.False(t, seen[loc.Code], "duplicate locale %s", loc.Code)
		seen[loc.Code] = true
	}
}
