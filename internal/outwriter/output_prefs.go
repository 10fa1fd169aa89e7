package outwriter

import (
	"strconv"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/prefs"
)

// WriteUser renders the saved user. The GitHub token is masked in every format.
func (ow *OutWriter) WriteUser(u prefs.User, cfg *contract.Config) error {
	u.GitHubToken = maskToken(u.GitHubToken)
	rows := [][]string{
		{"ID", u.ID},
		{"Username", orDash(u.Username)},
		{"Email", orDash(u.Email)},
		{"Avatar", orDash(u.Avatar)},
		{"GitHub token", orDash(u.GitHubToken)},
		{"Language", u.Preferences.Language},
		{"Timezone", u.Preferences.Timezone},
		{"Notifications", strconv.FormatBool(u.Preferences.Notifications)},
		{"Email digest", strconv.FormatBool(u.Preferences.EmailDigest)},
	}
	return ow.emit(cfg, u, report{title: "👤 User", header: []string{"Field", "Value"}, rows: rows})
}

// WriteTheme renders a theme with its resolved palette.
func (ow *OutWriter) WriteTheme(t prefs.Theme, cfg *contract.Config) error {
	nf := numberFormat{cfg.Precision}
	p := t.Palette()
	rows := [][]string{
		{"Color scheme", string(t.ColorScheme)},
		{"Mode", string(t.Mode)},
		{"Glow intensity", strconv.Itoa(t.GlowIntensity)},
		{"Animation speed", nf.float(t.AnimationSpeed) + "x"},
		{"Background effect", strconv.FormatBool(t.BackgroundEffect)},
		{"Reduced motion", strconv.FormatBool(t.ReducedMotion)},
		{"Font size", strconv.Itoa(t.FontSize) + "px"},
		{"Primary", p.Primary},
		{"Secondary", p.Secondary},
		{"Accent", p.Accent},
		{"Success", p.Success},
	}
	payload := struct {
		prefs.Theme
		Palette prefs.Palette `json:"palette"`
	}{t, p}
	return ow.emit(cfg, payload, report{title: "🎨 Theme", header: []string{"Setting", "Value"}, rows: rows})
}

// maskToken keeps the last four characters of a secret.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
