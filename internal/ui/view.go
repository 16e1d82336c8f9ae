package ui

import (
	"fmt"
	"strings"

	"github.com/KpathaK21/CodeWizard/internal/styles"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) UpdateSelectorContent() {
	cfg := m.Session.Config()
	current := cfg.Provider
	if m.Overlay == OverlayModel {
		current = cfg.Model
	}

	items := m.selectorItems()
	if len(items) == 0 {
		m.ListViewport.SetContent(styles.ModalItemStyle.Render(
			lipgloss.NewStyle().Foreground(styles.HintColor).Render("No models listed for " + cfg.Provider)))
		return
	}

	rows := make([]string, 0, len(items))
	for i, item := range items {
		display := "  " + item
		if item == current {
			display = "● " + item
		}
		if m.Overlay == OverlayProvider && !m.Credentials.IsAvailable(item) {
			display += "  (no key)"
		}

		if i == m.SelectedIdx {
			rows = append(rows, styles.ModalSelectedStyle.Copy().
				Width(styles.ContentWidth).
				Render(display))
			continue
		}
		style := styles.ModalItemStyle.Copy().Width(styles.ContentWidth)
		if item == current {
			style = style.Foreground(styles.ProviderColor(cfg.Provider))
		} else {
			style = style.Foreground(lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#FFFFFF"})
		}
		rows = append(rows, style.Render(display))
	}
	m.ListViewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) RenderSelector() string {
	title := "Select Provider"
	if m.Overlay == OverlayModel {
		title = fmt.Sprintf("Select %s Model", m.Session.Config().Provider)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, styles.ModalTitleStyle.Render(title), m.ListViewport.View())

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("↑/↓: navigate • Enter: select • Esc: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderCredentialDialog() string {
	provider := m.Session.Config().Provider
	title := styles.ModalTitleStyle.Render(fmt.Sprintf("API key for %s", provider))

	current := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Render("Current: " + MaskSecret(m.Credentials.Get(provider)))

	parts := []string{title, current, "", styles.InputBoxStyle.Width(styles.ContentWidth - 2).Render(m.KeyInput.View())}
	if m.CredentialErr != "" {
		parts = append(parts, styles.ErrorStyle.Width(styles.ContentWidth).Render(m.CredentialErr))
	}

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("Enter: save • Esc: cancel")
	parts = append(parts, hint)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) RenderShortcutsModal() string {
	title := styles.ModalTitleStyle.Render("Keyboard Shortcuts")

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send message"},
		{"Ctrl+J", "New line"},
		{"Ctrl+T", "Cycle mode"},
		{"Ctrl+P", "Select provider"},
		{"Ctrl+B", "Select model"},
		{"Ctrl+K", "Set API key"},
		{"Ctrl+S", "View shortcuts (this menu)"},
		{"Ctrl+C", "Quit"},
	}

	var items []string
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFCC80")).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#E0E0E0"))

	for _, s := range shortcuts {
		line := fmt.Sprintf("%s %s", keyStyle.Render(s.key), descStyle.Render(s.desc))
		items = append(items, styles.ModalItemStyle.Render(line))
	}

	listContent := lipgloss.JoinVertical(lipgloss.Left, items...)
	content := lipgloss.JoinVertical(lipgloss.Left, title, listContent)

	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("Esc/Enter: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderBottomBar() string {
	cfg := m.Session.Config()

	mode := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.ModeColor(cfg.Mode)).
		Padding(0, 1).
		Render(strings.ToUpper(string(cfg.Mode)))

	provider := lipgloss.NewStyle().
		Foreground(styles.ProviderColor(cfg.Provider)).
		Render(cfg.Provider)

	model := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#B39DDB")).
		Render(TruncateRunes(cfg.Model, 25))

	keyText, keyColor := "key set", styles.CurrentTheme.Success
	if !m.Credentials.IsAvailable(cfg.Provider) {
		keyText, keyColor = "no API key", styles.CurrentTheme.Warning
	}
	key := lipgloss.NewStyle().Foreground(keyColor).Render(keyText)

	backend := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")).
		Render(TruncateRunes(m.BackendURL, 30))
	if m.Notice != "" {
		backend = lipgloss.NewStyle().
			Foreground(styles.CurrentTheme.Warning).
			Render(m.Notice)
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#555555")).
		Render("Help: ^S")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, mode, "  ", provider, " / ", model)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Center, key, "  ", backend, "  ", help)

	availableWidth := m.WindowWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide) - 2 // -2 for padding
	if availableWidth < 0 {
		availableWidth = 0
	}
	spacer := strings.Repeat(" ", availableWidth)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, leftSide, spacer, rightSide)

	return lipgloss.NewStyle().
		Width(m.WindowWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(0, 1).
		Render(bar)
}

func GetWelcomeScreen(width, height int) string {
	art := `
 ╭──────────────────────────────────────────────╮
 │                                              │
 │    ┏━╸┏━┓╺┳┓┏━╸   ╻ ╻╻╺━┓┏━┓┏━┓╺┳┓           │
 │    ┃  ┃ ┃ ┃┃┣╸    ┃╻┃┃┏━┛┣━┫┣┳┛ ┃┃           │
 │    ┗━╸┗━┛╺┻┛┗━╸   ┗┻┛╹┗━╸╹ ╹╹┗╸╺┻┛           │
 │                                              │
 ╰──────────────────────────────────────────────╯
`
	subtitle := "Paste an error or ask a question. Ctrl+T switches mode."

	styledArt := styles.WelcomeArtStyle.Render(art)
	styledSubtitle := styles.WelcomeSubtitleStyle.Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, styledArt, "", styledSubtitle)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) UpdateViewport() {
	busy := m.Session.Busy()
	if len(m.Session.Transcript()) == 0 && !busy {
		m.Viewport.SetContent(GetWelcomeScreen(m.Viewport.Width, m.Viewport.Height))
		return
	}

	m.syncMessages()
	content := strings.Join(m.Messages, "\n\n")
	if busy {
		loadingMsg := strings.Join([]string{
			styles.AiLabelStyle.Render("WIZARD"),
			fmt.Sprintf("%s Thinking...", m.Spinner.View()),
		}, "\n")
		if len(m.Messages) > 0 {
			content = content + "\n\n" + loadingMsg
		} else {
			content = loadingMsg
		}
	}
	m.Viewport.SetContent(content)
	m.Viewport.GotoBottom()
}

func (m *Model) renderModal(body string) string {
	modal := styles.ModalStyle.Width(ModalWidth).Render(body)
	return lipgloss.Place(
		m.WindowWidth,
		m.WindowHeight,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func (m *Model) View() string {
	switch m.Overlay {
	case OverlayProvider, OverlayModel:
		return m.renderModal(m.RenderSelector())
	case OverlayCredential:
		return m.renderModal(m.RenderCredentialDialog())
	case OverlayShortcuts:
		return m.renderModal(m.RenderShortcutsModal())
	}

	inputWidth := m.WindowWidth - 4
	inputBox := styles.InputBoxStyle.Width(inputWidth).Render(m.TextInput.View())

	chatContent := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("CODEWIZARD"),
		"",
		m.Viewport.View(),
		"",
		inputBox,
	)
	chatArea := lipgloss.PlaceHorizontal(m.WindowWidth, lipgloss.Center, chatContent)

	return lipgloss.JoinVertical(lipgloss.Left, chatArea, m.RenderBottomBar())
}
