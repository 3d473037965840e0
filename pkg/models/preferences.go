package models

// ThemePreference represents the UI theme preference.
type ThemePreference string

const (
	// ThemeForest is the dark variant and the application default.
	ThemeForest ThemePreference = "forest"
	// ThemeDawn is the light variant.
	ThemeDawn ThemePreference = "dawn"
)

// DefaultTheme is used whenever no stored preference can be resolved.
const DefaultTheme = ThemeForest

// Valid reports whether the value is one of the two known theme names.
func (t ThemePreference) Valid() bool {
	switch t {
	case ThemeForest, ThemeDawn:
		return true
	default:
		return false
	}
}

// Other returns the opposite variant. Toggling is an involution over the
// two-element set, so t.Other().Other() == t for any valid t.
func (t ThemePreference) Other() ThemePreference {
	if t == ThemeForest {
		return ThemeDawn
	}
	return ThemeForest
}
