package styles

import (
	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines a complete color scheme for the application
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	BgElevated lipgloss.Color

	TextMuted lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// One badge color per conversation mode
	ModeCode      lipgloss.Color
	ModeAsk       lipgloss.Color
	ModeArchitect lipgloss.Color
	ModeDebug     lipgloss.Color
}

var DarkTheme = Theme{
	Primary:   lipgloss.Color("#A78BFA"), // Violet 400
	Secondary: lipgloss.Color("#22D3EE"), // Cyan 400

	BgElevated: lipgloss.Color("#2A2A3C"),

	TextMuted: lipgloss.Color("#64748B"), // Slate 500

	Success: lipgloss.Color("#34D399"), // Emerald 400
	Warning: lipgloss.Color("#FBBF24"), // Amber 400
	Error:   lipgloss.Color("#FB7185"), // Rose 400

	ModeCode:      lipgloss.Color("#10B981"),
	ModeAsk:       lipgloss.Color("#3B82F6"),
	ModeArchitect: lipgloss.Color("#8B5CF6"),
	ModeDebug:     lipgloss.Color("#F97316"),
}

var LightTheme = Theme{
	Primary:   lipgloss.Color("#6D28D9"), // Violet 700
	Secondary: lipgloss.Color("#0891B2"), // Cyan 600

	BgElevated: lipgloss.Color("#EDE9FE"),

	TextMuted: lipgloss.Color("#71717A"), // Zinc 500

	Success: lipgloss.Color("#059669"), // Emerald 600
	Warning: lipgloss.Color("#D97706"), // Amber 600
	Error:   lipgloss.Color("#DC2626"), // Red 600

	ModeCode:      lipgloss.Color("#047857"),
	ModeAsk:       lipgloss.Color("#1D4ED8"),
	ModeArchitect: lipgloss.Color("#6D28D9"),
	ModeDebug:     lipgloss.Color("#C2410C"),
}

// CurrentTheme holds the active theme (set at runtime based on terminal)
var CurrentTheme = DarkTheme

type Adaptive = lipgloss.AdaptiveColor

var (
	FgPrimary   = Adaptive{Light: string(LightTheme.Primary), Dark: string(DarkTheme.Primary)}
	FgSecondary = Adaptive{Light: string(LightTheme.Secondary), Dark: string(DarkTheme.Secondary)}
	FgMuted     = Adaptive{Light: string(LightTheme.TextMuted), Dark: string(DarkTheme.TextMuted)}
	FgError     = Adaptive{Light: string(LightTheme.Error), Dark: string(DarkTheme.Error)}
	BgElevated  = Adaptive{Light: string(LightTheme.BgElevated), Dark: string(DarkTheme.BgElevated)}
)

var providerColors = map[string]lipgloss.Color{
	models.ProviderOpenAI:    lipgloss.Color("#10A37F"),
	models.ProviderAnthropic: lipgloss.Color("#D97757"),
}

// ProviderColor returns the brand color for a provider, or the theme's
// primary color for providers it does not know.
func ProviderColor(provider string) lipgloss.Color {
	if c, ok := providerColors[provider]; ok {
		return c
	}
	return CurrentTheme.Primary
}

func ModeColor(mode models.Mode) lipgloss.Color {
	switch mode {
	case models.ModeCode:
		return CurrentTheme.ModeCode
	case models.ModeAsk:
		return CurrentTheme.ModeAsk
	case models.ModeArchitect:
		return CurrentTheme.ModeArchitect
	case models.ModeDebug:
		return CurrentTheme.ModeDebug
	}
	return CurrentTheme.Primary
}

// GlamourStyle names the glamour style matching the active theme.
func GlamourStyle() string {
	if CurrentTheme == LightTheme {
		return "light"
	}
	return "dark"
}

// InitTheme sets the current theme based on terminal background
func InitTheme() {
	if lipgloss.HasDarkBackground() {
		CurrentTheme = DarkTheme
	} else {
		CurrentTheme = LightTheme
	}
}
