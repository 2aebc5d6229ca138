// Package profile manages the user's local profile and theme preference,
// persisted through the key-value store the way the page keeps them in
// localStorage.
package profile

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kittclouds/godash/internal/kv"
)

const (
	keyName    = "name"
	keyAge     = "age"
	keyCountry = "country"
	keyTheme   = "theme"
)

// Theme values. Anything unknown falls back to light.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Profile is the local user profile. Age stays a string: it comes straight
// from a form field and is only displayed, never computed with.
type Profile struct {
	Name    string `json:"name" validate:"required"`
	Age     string `json:"age" validate:"required,numeric"`
	Country string `json:"country" validate:"required"`
}

// Greeting formats the banner line shown once a complete profile exists.
func (p Profile) Greeting() string {
	return fmt.Sprintf("Hello, %s from %s, age %s!", p.Name, p.Country, p.Age)
}

// normalize trims and collapses whitespace runs, mirroring what the page
// does to saved values on load.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Manager validates and persists profiles.
type Manager struct {
	store    kv.Store
	validate *validator.Validate
	log      *slog.Logger
}

// NewManager builds a manager over the given store. The logger may be nil.
func NewManager(store kv.Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Save validates the profile and persists its three fields. Fields are
// normalized before validation, so whitespace-only input counts as missing.
func (m *Manager) Save(p Profile) error {
	p.Name = normalize(p.Name)
	p.Age = normalize(p.Age)
	p.Country = normalize(p.Country)

	if err := m.validate.Struct(p); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	for key, value := range map[string]string{
		keyName:    p.Name,
		keyAge:     p.Age,
		keyCountry: p.Country,
	} {
		if err := m.store.Set(key, value); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}
	m.log.Debug("profile saved", "name", p.Name)
	return nil
}

// Load reads the stored profile. The second result reports whether a
// complete profile exists; a partial one is returned as-is so the form can
// be prefilled.
func (m *Manager) Load() (Profile, bool, error) {
	var p Profile
	for key, field := range map[string]*string{
		keyName:    &p.Name,
		keyAge:     &p.Age,
		keyCountry: &p.Country,
	} {
		value, _, err := m.store.Get(key)
		if err != nil {
			return Profile{}, false, fmt.Errorf("load profile: %w", err)
		}
		*field = normalize(value)
	}
	complete := p.Name != "" && p.Age != "" && p.Country != ""
	return p, complete, nil
}

// Theme returns the persisted theme preference, defaulting to light.
func (m *Manager) Theme() (string, error) {
	value, ok, err := m.store.Get(keyTheme)
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	if !ok || value != ThemeDark {
		return ThemeLight, nil
	}
	return ThemeDark, nil
}

// SaveTheme persists the theme preference.
func (m *Manager) SaveTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := m.store.Set(keyTheme, theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// ToggleTheme flips between light and dark, persists, and returns the new
// value.
func (m *Manager) ToggleTheme() (string, error) {
	current, err := m.Theme()
	if err != nil {
		return "", err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	if err := m.SaveTheme(next); err != nil {
		return "", err
	}
	return next, nil
}
