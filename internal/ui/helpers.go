package ui

import (
	"fmt"
	"strings"

	"github.com/KpathaK21/CodeWizard/internal/models"
	"github.com/KpathaK21/CodeWizard/internal/session"
	"github.com/KpathaK21/CodeWizard/internal/styles"
	"github.com/mattn/go-runewidth"
)

func WrappedLineCount(value string, width int) int {
	if width <= 0 {
		return 1
	}
	lines := strings.Split(value, "\n")
	if len(lines) == 0 {
		return 1
	}
	count := 0
	for _, line := range lines {
		w := runewidth.StringWidth(line)
		if w == 0 {
			count++
			continue
		}
		count += (w-1)/width + 1
	}
	return count
}

func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// MaskSecret shows only the tail of a key, for the credential dialog.
func MaskSecret(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "not set"
	}
	r := []rune(secret)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return "••••" + string(r[len(r)-4:])
}

func wrapIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// SyncListViewportScroll keeps the selected row of the open selector
// visible. Rows are one line each.
func (m *Model) SyncListViewportScroll() {
	if m.SelectedIdx+1 > m.ListViewport.YOffset+m.ListViewport.Height {
		m.ListViewport.SetYOffset(m.SelectedIdx + 1 - m.ListViewport.Height)
	}
	if m.SelectedIdx < m.ListViewport.YOffset {
		m.ListViewport.SetYOffset(m.SelectedIdx)
	}
}

func FormatUserMessage(content string, width int, isFirst bool) string {
	label := styles.UserLabelStyle.Render("YOU")
	msg := styles.UserMsgStyle.Width(width - 4).Render(content)
	if isFirst {
		return fmt.Sprintf("\n%s\n%s", label, msg)
	}
	return fmt.Sprintf("%s\n%s", label, msg)
}

func FormatAIMessage(content string) string {
	label := styles.AiLabelStyle.Render("WIZARD")
	msg := styles.AiMsgStyle.Render(content)
	return fmt.Sprintf("%s\n%s", label, msg)
}

func FormatErrorMessage(content string) string {
	label := styles.AiLabelStyle.Render("WIZARD")
	return fmt.Sprintf("%s\n%s", label, styles.ErrorStyle.Render(content))
}

// renderEntry formats one transcript message. Assistant replies are
// markdown; inline failures are shown as they are.
func (m *Model) renderEntry(msg models.Message, isFirst bool) string {
	if msg.Role == models.RoleUser {
		return FormatUserMessage(msg.Content, m.Viewport.Width, isFirst)
	}
	if strings.HasPrefix(msg.Content, session.ErrorPrefix) {
		return FormatErrorMessage(msg.Content)
	}
	display := msg.Content
	if m.Renderer != nil {
		if rendered, err := m.Renderer.Render(msg.Content); err == nil {
			display = strings.TrimSpace(rendered)
		}
	}
	return FormatAIMessage(display)
}

// syncMessages renders the transcript entries not yet in m.Messages. The
// transcript only grows, so the cache is a prefix of it.
func (m *Model) syncMessages() {
	transcript := m.Session.Transcript()
	for i := len(m.Messages); i < len(transcript); i++ {
		m.Messages = append(m.Messages, m.renderEntry(transcript[i], i == 0))
	}
}
