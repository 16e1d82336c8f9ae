package models

import "strings"

// Mode is the conversational preset forwarded to the backend with every request.
type Mode string

const (
	ModeCode      Mode = "code"
	ModeAsk       Mode = "ask"
	ModeArchitect Mode = "architect"
	ModeDebug     Mode = "debug"
)

// Modes lists the selectable modes in display order.
var Modes = []Mode{ModeCode, ModeAsk, ModeArchitect, ModeDebug}

func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	for i, known := range Modes {
		if known == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return Modes[0]
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. It is also the wire shape of entries in
// the chat request's messages array.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
