package session

import (
	"slices"

	"github.com/KpathaK21/CodeWizard/internal/models"
)

// Transcript is the append-only message history of one session.
type Transcript struct {
	messages []models.Message
}

func (t *Transcript) Append(msg models.Message) {
	t.messages = append(t.messages, msg)
}

// Messages returns a copy of the history in insertion order.
func (t *Transcript) Messages() []models.Message {
	return slices.Clone(t.messages)
}

func (t *Transcript) Len() int {
	return len(t.messages)
}
