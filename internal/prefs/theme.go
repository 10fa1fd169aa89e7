package prefs

import (
	"encoding/json"
	"fmt"
	"slices"
)

// ColorScheme names one of the built-in palettes.
type ColorScheme string

// Color schemes.
const (
	ClassicBluePurple ColorScheme = "classic-blue-purple"
	NeonPinkGreen     ColorScheme = "neon-pink-green"
	OrangeYellowCyber ColorScheme = "orange-yellow-cyber"
	IceBlueWhite      ColorScheme = "ice-blue-white"
	RedBlackHacker    ColorScheme = "red-black-hacker"
)

// ThemeMode is the overall brightness mode.
type ThemeMode string

// Theme modes.
const (
	DarkMode         ThemeMode = "dark"
	LightMode        ThemeMode = "light"
	HighContrastMode ThemeMode = "high-contrast"
)

// Palette holds the four colors of a scheme.
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Success   string `json:"success"`
}

// ColorSchemes maps every scheme to its palette.
var ColorSchemes = map[ColorScheme]Palette{
	ClassicBluePurple: {Primary: "#4A90E2", Secondary: "#7C5CDB", Accent: "#5EC4E8", Success: "#52C41A"},
	NeonPinkGreen:     {Primary: "#FF006E", Secondary: "#B300FF", Accent: "#39FF14", Success: "#00FF9F"},
	OrangeYellowCyber: {Primary: "#FF6B00", Secondary: "#FAAD14", Accent: "#FFD700", Success: "#52C41A"},
	IceBlueWhite:      {Primary: "#00F0FF", Secondary: "#8AB4F8", Accent: "#E8F4FF", Success: "#00E5A0"},
	RedBlackHacker:    {Primary: "#FF0000", Secondary: "#DC143C", Accent: "#00FF00", Success: "#00FF00"},
}

// ValidThemeModes lists the accepted modes.
var ValidThemeModes = []ThemeMode{DarkMode, LightMode, HighContrastMode}

// Theme ranges.
const (
	MinGlowIntensity  = 0
	MaxGlowIntensity  = 100
	MinAnimationSpeed = 0.5
	MaxAnimationSpeed = 2.0
	MinFontSize       = 14
	MaxFontSize       = 18
)

// Theme is the saved look of the dashboard.
type Theme struct {
	ColorScheme      ColorScheme `json:"colorScheme"`
	Mode             ThemeMode   `json:"mode"`
	GlowIntensity    int         `json:"glowIntensity"`
	AnimationSpeed   float64     `json:"animationSpeed"`
	BackgroundEffect bool        `json:"backgroundEffect"`
	ReducedMotion    bool        `json:"reducedMotion"`
	FontSize         int         `json:"fontSize"`
}

// DefaultTheme returns the theme used when nothing is saved.
func DefaultTheme() Theme {
	return Theme{
		ColorScheme:      ClassicBluePurple,
		Mode:             DarkMode,
		GlowIntensity:    70,
		AnimationSpeed:   1,
		BackgroundEffect: true,
		FontSize:         16,
	}
}

// Palette returns the colors of the theme's scheme.
func (t Theme) Palette() Palette {
	return ColorSchemes[t.ColorScheme]
}

// SetColorScheme switches the palette. Unknown schemes are rejected.
func (t *Theme) SetColorScheme(s ColorScheme) error {
	if _, ok := ColorSchemes[s]; !ok {
		return fmt.Errorf("unknown color scheme %q", s)
	}
	t.ColorScheme = s
	return nil
}

// SetMode switches the mode. Unknown modes are rejected.
func (t *Theme) SetMode(m ThemeMode) error {
	if !slices.Contains(ValidThemeModes, m) {
		return fmt.Errorf("unknown theme mode %q", m)
	}
	t.Mode = m
	return nil
}

// SetGlowIntensity clamps to [0, 100].
func (t *Theme) SetGlowIntensity(v int) {
	t.GlowIntensity = min(max(v, MinGlowIntensity), MaxGlowIntensity)
}

// SetAnimationSpeed clamps to [0.5, 2].
func (t *Theme) SetAnimationSpeed(v float64) {
	t.AnimationSpeed = min(max(v, MinAnimationSpeed), MaxAnimationSpeed)
}

// SetFontSize clamps to [14, 18].
func (t *Theme) SetFontSize(v int) {
	t.FontSize = min(max(v, MinFontSize), MaxFontSize)
}

// ToggleBackgroundEffect flips the background effect.
func (t *Theme) ToggleBackgroundEffect() { t.BackgroundEffect = !t.BackgroundEffect }

// ToggleReducedMotion flips reduced motion.
func (t *Theme) ToggleReducedMotion() { t.ReducedMotion = !t.ReducedMotion }

// normalize brings a decoded theme back into range. Unknown names fall back to the defaults.
func (t *Theme) normalize() {
	def := DefaultTheme()
	if t.SetColorScheme(t.ColorScheme) != nil {
		t.ColorScheme = def.ColorScheme
	}
	if t.SetMode(t.Mode) != nil {
		t.Mode = def.Mode
	}
	t.SetGlowIntensity(t.GlowIntensity)
	t.SetAnimationSpeed(t.AnimationSpeed)
	t.SetFontSize(t.FontSize)
}

// LoadTheme returns the saved theme laid over the defaults.
func (p *Prefs) LoadTheme() (Theme, error) {
	t := DefaultTheme()
	if _, err := p.load(themeKey, &t); err != nil {
		return DefaultTheme(), err
	}
	t.normalize()
	return t, nil
}

// SaveTheme stores t after clamping it.
func (p *Prefs) SaveTheme(t Theme) error {
	t.normalize()
	return p.save(themeKey, t)
}

// UpdateTheme loads the theme, applies fn and stores the result.
func (p *Prefs) UpdateTheme(fn func(*Theme) error) (Theme, error) {
	t, err := p.LoadTheme()
	if err != nil {
		return t, err
	}
	if err := fn(&t); err != nil {
		return t, err
	}
	t.normalize()
	return t, p.SaveTheme(t)
}

// ResetTheme stores the default theme.
func (p *Prefs) ResetTheme() error {
	return p.SaveTheme(DefaultTheme())
}

// ExportTheme returns the saved theme as indented JSON.
func (p *Prefs) ExportTheme() ([]byte, error) {
	t, err := p.LoadTheme()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(t, "", "  ")
}

// ImportTheme replaces the saved theme with a JSON document. Missing fields take defaults.
func (p *Prefs) ImportTheme(raw []byte) (Theme, error) {
	t := DefaultTheme()
	if err := json.Unmarshal(raw, &t); err != nil {
		return Theme{}, fmt.Errorf("import theme: %w", err)
	}
	t.normalize()
	return t, p.save(themeKey, t)
}
