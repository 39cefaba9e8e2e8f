package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Notifier pushes short messages to an ntfy topic. A Notifier with no topic
// configured drops every message silently.
type Notifier struct {
	cfg    config.NtfyConfig
	client *resty.Client
}

// NewNotifier builds a Notifier from the push settings.
func NewNotifier(cfg config.NtfyConfig) *Notifier {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(5 * time.Second)
	if cfg.User != "" && cfg.Password != "" {
		client.SetBasicAuth(cfg.User, cfg.Password)
	}
	return &Notifier{cfg: cfg, client: client}
}

// Enabled reports whether a topic is configured.
func (n *Notifier) Enabled() bool {
	return strings.TrimSpace(n.cfg.Topic) != ""
}

// headerSafe folds a header value to Latin-1, replacing anything outside it.
// ntfy carries Title and Click as HTTP headers, which cannot hold arbitrary
// UTF-8.
func headerSafe(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= 0xFF {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

// Send pushes one notification. clickURL, when non-empty, makes the
// notification open that link on tap.
func (n *Notifier) Send(ctx context.Context, title, body, clickURL string) error {
	if !n.Enabled() {
		common.LogDebug("notification topic not configured, message dropped")
		return nil
	}

	req := n.client.R().
		SetContext(ctx).
		SetHeader("Title", headerSafe(title)).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetBody(body)
	if clickURL != "" {
		req.SetHeader("Click", headerSafe(clickURL))
	}

	resp, err := req.Post("/" + strings.TrimSpace(n.cfg.Topic))
	if err != nil {
		return fmt.Errorf("notification failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notification returned status %d", resp.StatusCode())
	}
	common.LogDebug("notification sent", zap.String("title", title))
	return nil
}
