package ui

import (
	"context"
	"time"

	"github.com/KpathaK21/CodeWizard/internal/catalog"
	"github.com/KpathaK21/CodeWizard/internal/session"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/sirupsen/logrus"
)

const (
	MaxChatWidth   = 100
	MaxInputHeight = 6

	// CatalogTimeout bounds the startup model list fetch.
	CatalogTimeout = 10 * time.Second
)

// ModalWidth shrinks with the terminal, see Update.
var ModalWidth = 60

// Overlay is the dialog currently drawn over the chat, if any.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayProvider
	OverlayModel
	OverlayCredential
	OverlayShortcuts
)

type (
	// ChatResultMsg carries the outcome of a chat round trip back to the
	// Update loop.
	ChatResultMsg struct{ Result session.Result }

	// CatalogLoadedMsg carries the backend's model list, or the reason it
	// could not be fetched.
	CatalogLoadedMsg struct {
		Models map[string][]string
		Err    error
	}
)

// CredentialStore is what the UI needs from the credential store: the
// session's read side plus saving a key typed into the dialog.
type CredentialStore interface {
	session.Credentials
	Set(provider, secret string) error
}

// Options wires the model to the core. All fields are required except
// BackendURL, which is only displayed.
type Options struct {
	Session     *session.Session
	Credentials CredentialStore
	Catalog     *catalog.Catalog
	Lister      catalog.Lister
	BackendURL  string
}

type Model struct {
	Viewport     viewport.Model
	ListViewport viewport.Model
	Messages     []string // rendered transcript entries, in transcript order
	TextInput    textarea.Model
	KeyInput     textinput.Model
	Spinner      spinner.Model
	Renderer     *glamour.TermRenderer

	Session     *session.Session
	Credentials CredentialStore
	Catalog     *catalog.Catalog
	Lister      catalog.Lister
	BackendURL  string

	Overlay       Overlay
	SelectedIdx   int
	CredentialErr string
	// resubmit is set when the credential dialog interrupted a submission;
	// saving a key then sends the pending input right away.
	resubmit bool
	Notice   string

	WindowWidth  int
	WindowHeight int

	ctx context.Context
	log *logrus.Entry
}
