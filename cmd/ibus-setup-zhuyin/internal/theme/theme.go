package theme

import (
	"image/color"

	"gioui.org/unit"
	"gioui.org/widget/material"
)

// Palette defines the window colors.
type Palette struct {
	Background color.NRGBA
	Surface    color.NRGBA
	Primary    color.NRGBA
	Text       color.NRGBA
	TextMuted  color.NRGBA
	Border     color.NRGBA
	Success    color.NRGBA
	Error      color.NRGBA
}

// Config defines the window metrics.
type Config struct {
	CornerRadius unit.Dp
	Spacing      unit.Dp
	Padding      unit.Dp
	FontTitle    unit.Sp
	FontBody     unit.Sp
	FontCaption  unit.Sp
}

// Theme wraps the material theme with the preferences window styling.
type Theme struct {
	*material.Theme
	Palette Palette
	Config  Config
}

// NewTheme creates the light GNOME-like theme.
func NewTheme(mtheme *material.Theme) *Theme {
	t := &Theme{
		Theme: mtheme,
		Palette: Palette{
			Background: color.NRGBA{R: 0xFA, G: 0xFA, B: 0xFA, A: 0xFF},
			Surface:    color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
			Primary:    color.NRGBA{R: 0x35, G: 0x84, B: 0xE4, A: 0xFF},
			Text:       color.NRGBA{R: 0x24, G: 0x1F, B: 0x31, A: 0xFF},
			TextMuted:  color.NRGBA{R: 0x77, G: 0x76, B: 0x7B, A: 0xFF},
			Border:     color.NRGBA{R: 0xDE, G: 0xDD, B: 0xDA, A: 0xFF},
			Success:    color.NRGBA{R: 0x26, G: 0xA2, B: 0x69, A: 0xFF},
			Error:      color.NRGBA{R: 0xC0, G: 0x1C, B: 0x28, A: 0xFF},
		},
		Config: Config{
			CornerRadius: unit.Dp(8),
			Spacing:      unit.Dp(8),
			Padding:      unit.Dp(16),
			FontTitle:    unit.Sp(20),
			FontBody:     unit.Sp(14),
			FontCaption:  unit.Sp(12),
		},
	}
	t.Theme.Palette.ContrastBg = t.Palette.Primary
	t.Theme.Palette.Fg = t.Palette.Text
	t.Theme.Palette.Bg = t.Palette.Background
	return t
}
