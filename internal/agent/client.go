package agent

import (
	"context"
	"encoding/json"
	"errors"
)

// StreamEventType discriminates the events a streaming turn produces.
type StreamEventType int

const (
	// StreamEventTextDelta carries an incremental chunk of assistant text.
	StreamEventTextDelta StreamEventType = iota
	// StreamEventItem carries a structured output item, typically a
	// function_call payload.
	StreamEventItem
	// StreamEventCompleted ends the turn.
	StreamEventCompleted
)

type StreamEvent struct {
	Type StreamEventType
	Text string
	Item json.RawMessage
}

// ToolSpec describes a function tool exposed to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Prompt is one complete model request.
type Prompt struct {
	Model    string
	Messages []Message
	Tools    []ToolSpec
}

// ModelClient abstracts a chat model provider.
type ModelClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
	Stream(ctx context.Context, prompt Prompt, onEvent func(StreamEvent)) error
}

// EchoClient is the fallback when no API key is configured: it reflects
// the last user message so the UI remains demonstrable offline.
type EchoClient struct {
	Prefix string
}

var _ ModelClient = EchoClient{}

func (c EchoClient) Complete(_ context.Context, prompt Prompt) (string, error) {
	for i := len(prompt.Messages) - 1; i >= 0; i-- {
		if prompt.Messages[i].Role == RoleUser {
			return c.Prefix + prompt.Messages[i].Content, nil
		}
	}
	return "", errors.New("no user message to echo")
}

func (c EchoClient) Stream(ctx context.Context, prompt Prompt, onEvent func(StreamEvent)) error {
	text, err := c.Complete(ctx, prompt)
	if err != nil {
		return err
	}
	onEvent(StreamEvent{Type: StreamEventTextDelta, Text: text})
	onEvent(StreamEvent{Type: StreamEventCompleted})
	return nil
}

// DefaultTools returns the built-in tool specs.
func DefaultTools() []ToolSpec {
	return []ToolSpec{
		{
			Name:        "run_command",
			Description: "Run a shell command in the workspace; its live output appears in the chat.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"command": map[string]any{
						"type":        "string",
						"description": "The full shell command to run.",
					},
				},
				"required":             []string{"command"},
				"additionalProperties": false,
			},
		},
	}
}
