package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KpathaK21/CodeWizard/internal/session"
	"github.com/KpathaK21/CodeWizard/internal/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.Spinner, spCmd = m.Spinner.Update(msg)
		if m.Session.Busy() {
			m.UpdateViewport()
		}
		return m, spCmd

	case tea.KeyMsg:
		switch m.Overlay {
		case OverlayProvider, OverlayModel:
			return m.updateSelector(msg)
		case OverlayCredential:
			return m.updateCredentialDialog(msg)
		case OverlayShortcuts:
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "enter", "?", "ctrl+s":
				m.Overlay = OverlayNone
			}
			return m, nil
		}

		if isNewlineShortcut(msg) {
			m.TextInput.InsertString("\n")
			m.updateInputLayout()
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlT:
			cfg := m.Session.Config()
			// Next always yields a known mode.
			_ = m.Session.SetMode(cfg.Mode.Next())
			return m, nil

		case tea.KeyCtrlP:
			m.openSelector(OverlayProvider)
			return m, nil

		case tea.KeyCtrlB:
			m.openSelector(OverlayModel)
			return m, nil

		case tea.KeyCtrlK:
			return m, m.openCredentialDialog(false)

		case tea.KeyCtrlS:
			m.Overlay = OverlayShortcuts
			return m, nil

		case tea.KeyEnter:
			return m, m.submit()
		}

	case ChatResultMsg:
		reply := m.Session.Complete(msg.Result)
		m.UpdateViewport()
		if reply.PromptCredentials {
			m.CredentialErr = "The API key was rejected. Enter a new one."
			return m, m.openCredentialDialog(false)
		}
		return m, nil

	case CatalogLoadedMsg:
		if msg.Err != nil {
			m.log.WithError(msg.Err).Warn("model catalog unavailable, using built-in list")
			m.Notice = "offline model list"
			return m, nil
		}
		m.Catalog.Merge(msg.Models)
		m.Session.ApplyCatalog()
		m.Notice = ""
		m.log.WithField("providers", len(msg.Models)).Debug("model catalog loaded")
		return m, nil

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height

		ModalWidth = msg.Width - 10
		if ModalWidth > 60 {
			ModalWidth = 60
		}
		if ModalWidth < 30 {
			ModalWidth = 30
		}
		styles.ContentWidth = ModalWidth - 6

		m.ListViewport.Width = styles.ContentWidth
		m.ListViewport.Height = msg.Height - 15
		if m.ListViewport.Height > 15 {
			m.ListViewport.Height = 15
		}
		if m.ListViewport.Height < 5 {
			m.ListViewport.Height = 5
		}
		m.KeyInput.Width = styles.ContentWidth - 4

		chatWidth := msg.Width - 2
		if chatWidth > MaxChatWidth {
			chatWidth = MaxChatWidth
		}
		m.Viewport.Width = chatWidth - 2

		m.updateInputLayout()
		m.Renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath(styles.GlamourStyle()),
			glamour.WithWordWrap(chatWidth-6),
		)
		// Width changed, so every entry is rendered again.
		m.Messages = m.Messages[:0]
		m.UpdateViewport()
		return m, nil
	}

	m.TextInput, tiCmd = m.TextInput.Update(msg)
	m.updateInputLayout()

	// Filter out terminal background color queries and cursor reference codes that leak into the input
	val := m.TextInput.Value()
	if strings.Contains(val, "]11;rgb:") || strings.Contains(val, "1;rgb:") || strings.Contains(val, "[1;1R") {
		m.TextInput.Reset()
	}

	m.Viewport, vpCmd = m.Viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

// submit hands the input to the session. Only a submission that passed
// the gate clears the input box.
func (m *Model) submit() tea.Cmd {
	pending, err := m.Session.Submit(m.TextInput.Value())
	switch {
	case errors.Is(err, session.ErrCredentialRequired):
		return m.openCredentialDialog(true)
	case err != nil:
		return nil
	}

	m.TextInput.Reset()
	m.updateInputLayout()
	m.UpdateViewport()
	return tea.Batch(m.sendCmd(pending), m.Spinner.Tick)
}

// sendCmd runs the network half of the cycle. It only reads the pending
// snapshot, never the model.
func (m *Model) sendCmd(pending *session.Pending) tea.Cmd {
	s := m.Session
	ctx := m.ctx
	return func() tea.Msg {
		return ChatResultMsg{Result: s.Send(ctx, pending)}
	}
}

func (m *Model) openSelector(kind Overlay) {
	m.Overlay = kind
	m.SelectedIdx = 0
	cfg := m.Session.Config()
	current := cfg.Provider
	if kind == OverlayModel {
		current = cfg.Model
	}
	for i, item := range m.selectorItems() {
		if item == current {
			m.SelectedIdx = i
			break
		}
	}
	m.UpdateSelectorContent()
	m.SyncListViewportScroll()
}

func (m *Model) selectorItems() []string {
	if m.Overlay == OverlayProvider {
		return m.Catalog.Providers()
	}
	return m.Catalog.Models(m.Session.Config().Provider)
}

func (m *Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.selectorItems()
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.Overlay = OverlayNone
		return m, nil
	case "ctrl+p", "ctrl+b":
		m.Overlay = OverlayNone
		return m, nil
	case "up", "k":
		m.SelectedIdx = wrapIndex(m.SelectedIdx-1, len(items))
	case "down", "j":
		m.SelectedIdx = wrapIndex(m.SelectedIdx+1, len(items))
	case "enter":
		if len(items) == 0 {
			m.Overlay = OverlayNone
			return m, nil
		}
		choice := items[m.SelectedIdx]
		if m.Overlay == OverlayModel {
			m.Session.SetModel(choice)
			m.Overlay = OverlayNone
			return m, nil
		}
		m.Overlay = OverlayNone
		if needsCredential := m.Session.SetProvider(choice); needsCredential {
			return m, m.openCredentialDialog(false)
		}
		return m, nil
	default:
		return m, nil
	}
	m.SyncListViewportScroll()
	m.UpdateSelectorContent()
	return m, nil
}

func (m *Model) openCredentialDialog(resubmit bool) tea.Cmd {
	m.Overlay = OverlayCredential
	m.resubmit = resubmit
	m.KeyInput.Reset()
	m.TextInput.Blur()
	return tea.Batch(m.KeyInput.Focus(), textinput.Blink)
}

func (m *Model) closeCredentialDialog() {
	m.Overlay = OverlayNone
	m.CredentialErr = ""
	m.resubmit = false
	m.KeyInput.Blur()
	m.KeyInput.Reset()
	m.TextInput.Focus()
}

func (m *Model) updateCredentialDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.closeCredentialDialog()
		return m, nil
	case tea.KeyEnter:
		provider := m.Session.Config().Provider
		if err := m.Credentials.Set(provider, m.KeyInput.Value()); err != nil {
			m.log.WithError(err).WithField("provider", provider).Error("saving API key")
			m.CredentialErr = fmt.Sprintf("Could not save key: %v", err)
			return m, nil
		}
		resubmit := m.resubmit
		m.closeCredentialDialog()
		if resubmit {
			return m, m.submit()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.KeyInput, cmd = m.KeyInput.Update(msg)
	return m, cmd
}

func isNewlineShortcut(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "shift+enter", "shift+return", "ctrl+j", "ctrl+enter", "alt+enter":
		return true
	default:
		return false
	}
}

func (m *Model) updateInputLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}

	inputWidth := m.WindowWidth - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	contentWidth := inputWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	lineCount := WrappedLineCount(m.TextInput.Value(), contentWidth)
	if lineCount < 1 {
		lineCount = 1
	}
	if lineCount > MaxInputHeight {
		lineCount = MaxInputHeight
	}

	m.TextInput.MaxHeight = MaxInputHeight
	m.TextInput.SetWidth(inputWidth)
	m.TextInput.SetHeight(lineCount)

	inputBoxHeight := m.TextInput.Height() + 2
	reserved := inputBoxHeight + 5
	viewportHeight := m.WindowHeight - reserved
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	m.Viewport.Height = viewportHeight
}
