package ui

import (
	"net/http"
	"time"
)

// ThemeCookie stores the preferred color mode.
const ThemeCookie = "theme"

// Mode is a color mode.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Theme is the per-request theme state.
type Theme struct {
	Mode Mode
}

// IsDark reports whether dark mode is active.
func (t Theme) IsDark() bool {
	return t.Mode == ModeDark
}

// ThemeFromRequest reads the theme cookie, defaulting to light.
func ThemeFromRequest(r *http.Request) Theme {
	c, err := r.Cookie(ThemeCookie)
	if err != nil {
		return Theme{Mode: ModeLight}
	}
	switch Mode(c.Value) {
	case ModeDark:
		return Theme{Mode: ModeDark}
	default:
		return Theme{Mode: ModeLight}
	}
}

// SetTheme persists mode in the theme cookie.
func SetTheme(w http.ResponseWriter, mode Mode) {
	if mode != ModeDark {
		mode = ModeLight
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ThemeCookie,
		Value:    string(mode),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}
