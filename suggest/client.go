package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"finplan/backend/models"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a personal-finance planning assistant. The user describes their
income, bills and savings goals; you answer with a single JSON object and
nothing else.

When you need more information, answer:
  {"kind": "question", "text": "<your question>"}

When you can suggest concrete transactions, answer:
  {"kind": "transactions", "items": [<item>, ...]}

Each item must have exactly these fields:
  name      - short display label
  amount    - positive number
  type      - "income" or "expense"
  startDate - first occurrence, YYYY-MM-DD
  frequency - "none", "days", "weeks" or "months"
  interval  - integer >= 1, number of frequency units between occurrences;
              omit for one-off transactions

Rules:
1. Never invent amounts the user did not state or clearly imply.
2. Use frequency "none" for one-off transactions.
3. Prefer "months" with interval 1 for typical bills and salaries.
4. Output raw JSON only, no markdown fences and no commentary.`

// Client calls an OpenAI-compatible chat-completion API to produce
// transaction suggestions.
type Client struct {
	client *openai.Client
	model  string
}

// New builds a client. baseURL may point at any OpenAI-compatible endpoint.
func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Propose sends the conversation and parses the constrained JSON reply. Any
// transport failure, non-success response or unparsable reply is reported
// as a ServiceError; the call is never retried here.
func (c *Client) Propose(ctx context.Context, history []Message) (*Result, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &models.ServiceError{Op: "chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &models.ServiceError{Op: "chat completion", Err: fmt.Errorf("empty response")}
	}

	result, err := parseResult(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &models.ServiceError{Op: "response parsing", Err: err}
	}
	return result, nil
}

// parseResult decodes the model's reply, tolerating markdown code fences
// some models still emit around JSON.
func parseResult(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}

	switch result.Kind {
	case KindQuestion:
		if result.Text == "" {
			return nil, fmt.Errorf("question result carries no text")
		}
	case KindTransactions:
		if len(result.Items) == 0 {
			return nil, fmt.Errorf("transactions result carries no items")
		}
	default:
		return nil, fmt.Errorf("unknown result kind %q", result.Kind)
	}
	return &result, nil
}
