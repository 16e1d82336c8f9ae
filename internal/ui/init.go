package ui

import (
	"context"

	"github.com/KpathaK21/CodeWizard/internal/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

func InitialModel(opts Options) Model {
	ti := textarea.New()
	ti.Placeholder = "Paste an error, a stack trace or a question..."
	ti.Prompt = "❯ "
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.MaxHeight = MaxInputHeight
	ti.SetHeight(2)
	ti.SetWidth(80)
	ti.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(styles.CurrentTheme.Primary).Bold(true)
	ti.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(styles.CurrentTheme.Primary).Bold(true)
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.HintColor)
	ti.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.HintColor)
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ti.Focus()

	ki := textinput.New()
	ki.Placeholder = "sk-..."
	ki.EchoMode = textinput.EchoPassword
	ki.EchoCharacter = '•'
	ki.CharLimit = 0
	ki.Width = styles.ContentWidth - 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.CurrentTheme.Primary)

	return Model{
		TextInput:    ti,
		KeyInput:     ki,
		Viewport:     viewport.New(60, 15),
		ListViewport: viewport.New(ModalWidth-4, 10),
		Spinner:      sp,
		Messages:     []string{},
		Session:      opts.Session,
		Credentials:  opts.Credentials,
		Catalog:      opts.Catalog,
		Lister:       opts.Lister,
		BackendURL:   opts.BackendURL,
		ctx:          context.Background(),
		log:          logrus.WithField("component", "ui"),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.TextInput.Cursor.BlinkCmd(),
		m.Spinner.Tick,
		m.loadCatalogCmd(),
	)
}

// loadCatalogCmd fetches the model list off the Update loop. The catalog
// itself is only touched when CatalogLoadedMsg arrives.
func (m *Model) loadCatalogCmd() tea.Cmd {
	lister := m.Lister
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, CatalogTimeout)
		defer cancel()
		fetched, err := lister.Models(ctx)
		return CatalogLoadedMsg{Models: fetched, Err: err}
	}
}

func NewProgram(opts Options) *tea.Program {
	m := InitialModel(opts)
	return tea.NewProgram(&m, tea.WithAltScreen())
}
