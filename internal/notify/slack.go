package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/slack-go/slack"
)

// Slack posts events to an incoming webhook.
type Slack struct {
	webhookURL string
	// types limits which events are posted; empty means all.
	types map[string]bool
}

// NewSlack creates a Slack notifier. When eventTypes is empty every event is posted.
func NewSlack(webhookURL string, eventTypes ...string) *Slack {
	s := &Slack{webhookURL: webhookURL, types: make(map[string]bool)}
	for _, t := range eventTypes {
		s.types[t] = true
	}
	return s
}

func (s *Slack) Notify(ctx context.Context, event Event) error {
	if len(s.types) > 0 && !s.types[event.Type] {
		return nil
	}
	if err := slack.PostWebhookContext(ctx, s.webhookURL, webhookMessage(event)); err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	return nil
}

func webhookMessage(event Event) *slack.WebhookMessage {
	text := fmt.Sprintf("*%s*\n%s", event.Type, event.Message)
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
	}
	if details := formatData(event.Data); details != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, details, false, false),
		))
	}
	return &slack.WebhookMessage{
		Text:   event.Message,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}
}

func formatData(data map[string]interface{}) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, data[k]))
	}
	return strings.Join(parts, " | ")
}
