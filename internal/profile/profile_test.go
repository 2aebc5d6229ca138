package profile

import (
	"testing"

	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/godash/internal/kv"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	fs, err := mem.NewFS()
	require.NoError(t, err)
	store, err := kv.NewFileStore(fs, "profile")
	require.NoError(t, err)
	return NewManager(store, nil)
}

func TestSaveAndLoad(t *testing.T) {
	m := newManager(t)

	require.NoError(t, m.Save(Profile{Name: "Ada", Age: "36", Country: "UK"}))

	p, complete, err := m.Load()
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, Profile{Name: "Ada", Age: "36", Country: "UK"}, p)
	assert.Equal(t, "Hello, Ada from UK, age 36!", p.Greeting())
}

func TestSaveNormalizesWhitespace(t *testing.T) {
	m := newManager(t)

	require.NoError(t, m.Save(Profile{Name: "  Ada   Lovelace ", Age: " 36 ", Country: " United  Kingdom "}))

	p, complete, err := m.Load()
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, "United Kingdom", p.Country)
}

func TestSaveRejectsMissingFields(t *testing.T) {
	m := newManager(t)

	cases := []Profile{
		{Name: "", Age: "36", Country: "UK"},
		{Name: "Ada", Age: "", Country: "UK"},
		{Name: "Ada", Age: "36", Country: "   "},
	}
	for _, p := range cases {
		require.Error(t, m.Save(p), "profile %+v should be rejected", p)
	}

	_, complete, err := m.Load()
	require.NoError(t, err)
	assert.False(t, complete, "rejected saves must not persist")
}

func TestSaveRejectsNonNumericAge(t *testing.T) {
	m := newManager(t)
	require.Error(t, m.Save(Profile{Name: "Ada", Age: "thirty-six", Country: "UK"}))
}

func TestLoadIncompleteProfile(t *testing.T) {
	m := newManager(t)

	p, complete, err := m.Load()
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, Profile{}, p)
}

func TestThemeDefaultsToLight(t *testing.T) {
	m := newManager(t)

	theme, err := m.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}

func TestThemeToggleRoundTrip(t *testing.T) {
	m := newManager(t)

	theme, err := m.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	theme, err = m.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme, "theme survives reload")

	theme, err = m.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}

func TestSaveThemeRejectsUnknown(t *testing.T) {
	m := newManager(t)
	require.Error(t, m.SaveTheme("solarized"))
}
