package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the TUI color scheme.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemeDusk = Theme{
		Name:      "dusk",
		Primary:   lipgloss.Color("#b58ee6"),
		Secondary: lipgloss.Color("#5f87d7"),
		Accent:    lipgloss.Color("#ffaf5f"),
		Text:      lipgloss.Color("#e4e4e4"),
		Muted:     lipgloss.Color("#5f5f87"),
		Success:   lipgloss.Color("#87d787"),
		Warning:   lipgloss.Color("#ffaf00"),
	}

	ThemeAurora = Theme{
		Name:      "aurora",
		Primary:   lipgloss.Color("#00d7af"),
		Secondary: lipgloss.Color("#00afff"),
		Accent:    lipgloss.Color("#d787ff"),
		Text:      lipgloss.Color("#eeeeee"),
		Muted:     lipgloss.Color("#44666a"),
		Success:   lipgloss.Color("#5fff87"),
		Warning:   lipgloss.Color("#ffd75f"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#bcbcbc"),
		Accent:    lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#d0d0d0"),
		Muted:     lipgloss.Color("#6c6c6c"),
		Success:   lipgloss.Color("#ffffff"),
		Warning:   lipgloss.Color("#9e9e9e"),
	}

	CurrentTheme = ThemeDusk

	Themes = []Theme{ThemeDusk, ThemeAurora, ThemeMono}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDusk
}

// SetTheme changes the current theme.
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// ThemeNames returns the available theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}
