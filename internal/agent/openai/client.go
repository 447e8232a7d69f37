package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"glyph-cli/internal/agent"
)

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	api   *openai.Client
	model string
}

var _ agent.ModelClient = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	cfg := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg = append(cfg, option.WithBaseURL(strings.TrimRight(base, "/")))
	}
	client := openai.NewClient(cfg...)

	return &Client{
		api:   &client,
		model: opts.Model,
	}, nil
}

func (c *Client) resolveModel(model string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return c.model
}

func (c *Client) Complete(ctx context.Context, prompt agent.Prompt) (string, error) {
	params := c.buildParams(prompt)
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapHTTPError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Stream(ctx context.Context, prompt agent.Prompt, onEvent func(agent.StreamEvent)) error {
	params := c.buildParams(prompt)
	stream := c.api.Chat.Completions.NewStreaming(ctx, params)
	collector := newToolCallCollector()

	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				onEvent(agent.StreamEvent{Type: agent.StreamEventTextDelta, Text: choice.Delta.Content})
			}
			for _, call := range choice.Delta.ToolCalls {
				collector.Add(call.ID, call.Function.Name, call.Function.Arguments)
			}
			switch choice.FinishReason {
			case "tool_calls", "function_call":
				for _, raw := range collector.Flush() {
					onEvent(agent.StreamEvent{Type: agent.StreamEventItem, Item: raw})
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return wrapHTTPError(err)
	}
	for _, raw := range collector.Flush() {
		onEvent(agent.StreamEvent{Type: agent.StreamEventItem, Item: raw})
	}
	onEvent(agent.StreamEvent{Type: agent.StreamEventCompleted})
	return nil
}

func (c *Client) buildParams(prompt agent.Prompt) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.resolveModel(prompt.Model)),
		Messages: toChatMessages(prompt.Messages),
	}
	if len(prompt.Tools) > 0 {
		params.Tools = toChatTools(prompt.Tools)
	}
	return params
}

func toChatMessages(msgs []agent.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case agent.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case agent.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func toChatTools(specs []agent.ToolSpec) []openai.ChatCompletionToolUnionParam {
	tools := make([]openai.ChatCompletionToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			continue
		}
		fn := shared.FunctionDefinitionParam{
			Name:       name,
			Parameters: spec.Parameters,
			Strict:     openai.Bool(true),
		}
		if desc := strings.TrimSpace(spec.Description); desc != "" {
			fn.Description = openai.String(desc)
		}
		tools = append(tools, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: fn,
			},
		})
	}
	return tools
}

func wrapHTTPError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		raw := strings.TrimSpace(apiErr.RawJSON())
		if raw != "" {
			return fmt.Errorf("http_%d: %s", apiErr.StatusCode, raw)
		}
		return fmt.Errorf("http_%d: %v", apiErr.StatusCode, err)
	}
	return err
}

// toolCallCollector accumulates streamed tool-call fragments until the
// finish reason flushes them as complete function_call items.
type toolCallCollector struct {
	calls map[string]*pendingToolCall
	order []string
}

type pendingToolCall struct {
	ID   string
	Name string
	Args strings.Builder
}

func newToolCallCollector() *toolCallCollector {
	return &toolCallCollector{
		calls: make(map[string]*pendingToolCall),
	}
}

func (c *toolCallCollector) Add(id, name, args string) {
	if strings.TrimSpace(id) == "" && strings.TrimSpace(name) == "" {
		return
	}
	callID := id
	if callID == "" {
		callID = fmt.Sprintf("call-%d", len(c.calls)+1)
	}
	entry := c.calls[callID]
	if entry == nil {
		entry = &pendingToolCall{ID: callID}
		c.calls[callID] = entry
		c.order = append(c.order, callID)
	}
	if name != "" {
		entry.Name = name
	}
	if args != "" {
		entry.Args.WriteString(args)
	}
}

func (c *toolCallCollector) Flush() []json.RawMessage {
	if len(c.calls) == 0 {
		return nil
	}
	out := make([]json.RawMessage, 0, len(c.calls))
	for _, id := range c.order {
		call := c.calls[id]
		if call == nil || strings.TrimSpace(call.Name) == "" {
			continue
		}
		raw := encodeFunctionCallItem(call.ID, call.Name, call.Args.String())
		if len(raw) > 0 {
			out = append(out, raw)
		}
	}
	c.calls = make(map[string]*pendingToolCall)
	c.order = nil
	return out
}

func encodeFunctionCallItem(id, name, args string) json.RawMessage {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	payload := map[string]any{
		"type":      "function_call",
		"id":        id,
		"call_id":   id,
		"name":      name,
		"arguments": strings.TrimSpace(args),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}
