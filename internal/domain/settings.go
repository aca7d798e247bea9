package domain

// Theme is the UI theme stored in the settings singleton.
type Theme string

const (
	ThemeGame         Theme = "game"
	ThemeMinimalDark  Theme = "minimal-dark"
	ThemeMinimalLight Theme = "minimal-light"

	DefaultTheme = ThemeGame
)

// SettingsID is the primary key of the only AppSettings row.
const SettingsID int64 = 1

// AppSettings holds application-wide preferences.
type AppSettings struct {
	ID    int64
	Theme Theme
}

// ParseTheme returns the Theme for s, or false if s is not one of the known themes.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeGame, ThemeMinimalDark, ThemeMinimalLight:
		return Theme(s), true
	}
	return "", false
}
