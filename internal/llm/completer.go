// Package llm holds the chat-completion clients used to generate test cases.
package llm

import (
	"context"
	"errors"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params are the per-call generation parameters. An empty Model selects the
// client's default model.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Completer turns a conversation into the assistant's reply text.
type Completer interface {
	Complete(ctx context.Context, messages []Message, params Params) (string, error)
}

// ErrDisabled is returned by a Disabled completer.
var ErrDisabled = errors.New("no completion provider configured")

// Disabled is a Completer that always fails, so every generation takes the
// fallback path.
type Disabled struct{}

// Complete always returns ErrDisabled.
func (Disabled) Complete(context.Context, []Message, Params) (string, error) {
	return "", ErrDisabled
}

// SystemAndUser builds the usual two-message conversation.
func SystemAndUser(system, user string) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}
