package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prokura/procure-backend/internal/llm"
)

// Complete implements llm.ChatClient over chat/completions with a
// json_schema response format. A refusal from the model is returned as a
// ChatResult with Refusal set, distinct from transport errors.
func (c *Client) Complete(ctx context.Context, req llm.ChatRequest) (llm.ChatResult, error) {
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   req.SchemaName,
				"schema": req.Schema,
			},
		},
		"messages": []map[string]any{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.User},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		return llm.ChatResult{}, fmt.Errorf("openai: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
				Refusal string `json:"refusal"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return llm.ChatResult{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return llm.ChatResult{}, fmt.Errorf("no choices in openai response")
	}

	msg := cc.Choices[0].Message
	if refusal := strings.TrimSpace(msg.Refusal); refusal != "" {
		return llm.ChatResult{Refusal: refusal}, nil
	}
	return llm.ChatResult{Content: []byte(strings.TrimSpace(msg.Content))}, nil
}
