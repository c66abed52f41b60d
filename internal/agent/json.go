package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// completeJSON runs the prompt and decodes the reply into out.
func completeJSON(ctx context.Context, c Completer, system, prompt string, out interface{}) error {
	text, err := c.Complete(ctx, system, prompt)
	if err != nil {
		return err
	}
	return decodeJSON(text, out)
}

// decodeJSON strips markdown fences and any prose around the outermost JSON
// object before unmarshalling.
func decodeJSON(text string, out interface{}) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyResponse
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("parse model response: %w", err)
	}
	return nil
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
