package webex

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	var page struct {
		Items []Webhook `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/webhooks", nil, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (c *Client) CreateWebhook(ctx context.Context, w Webhook) (*Webhook, error) {
	body := struct {
		Name      string `json:"name"`
		TargetURL string `json:"targetUrl"`
		Resource  string `json:"resource"`
		Event     string `json:"event"`
		Secret    string `json:"secret,omitempty"`
	}{w.Name, w.TargetURL, w.Resource, w.Event, w.Secret}

	var out Webhook
	if err := c.do(ctx, http.MethodPost, "/webhooks", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/webhooks/"+url.PathEscape(id), nil, nil, nil)
}

// BotWebhooks are the registrations the bot needs, relative to its base URL.
var BotWebhooks = []Webhook{
	{Name: "message_webhook", TargetURL: "/events", Resource: "messages", Event: "created"},
	{Name: "attachment_action_webhook", TargetURL: "/actions", Resource: "attachmentActions", Event: "created"},
}

// RegisterWebhooks replaces any existing registrations named like
// BotWebhooks with ones pointing at baseURL.
func (c *Client) RegisterWebhooks(ctx context.Context, baseURL, secret string) ([]Webhook, error) {
	existing, err := c.ListWebhooks(ctx)
	if err != nil {
		return nil, err
	}
	names := map[string]bool{}
	for _, w := range BotWebhooks {
		names[w.Name] = true
	}
	for _, w := range existing {
		if !names[w.Name] {
			continue
		}
		log.Info().Str("name", w.Name).Str("target_url", w.TargetURL).Msg("deleting webhook")
		if err := c.DeleteWebhook(ctx, w.ID); err != nil {
			return nil, err
		}
	}

	base := strings.TrimRight(baseURL, "/")
	created := make([]Webhook, 0, len(BotWebhooks))
	for _, w := range BotWebhooks {
		w.TargetURL = base + w.TargetURL
		w.Secret = secret
		hook, err := c.CreateWebhook(ctx, w)
		if err != nil {
			return nil, err
		}
		log.Info().Str("name", hook.Name).Str("target_url", hook.TargetURL).Msg("created webhook")
		created = append(created, *hook)
	}
	return created, nil
}
