package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dripguard/dripguard/server/internal/config"
	"github.com/dripguard/dripguard/server/internal/model"
)

// Notifier fans one alert out to all configured webhook targets.
// Safe for concurrent use.
type Notifier struct {
	mu       sync.RWMutex
	webhooks []config.WebhookConfig

	client *http.Client
}

// NewNotifier creates a Notifier from the alerts configuration.
// An empty webhook list is valid — Notify becomes a no-op.
func NewNotifier(cfg config.AlertsConfig) *Notifier {
	return &Notifier{
		webhooks: cfg.Webhooks,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SetTargets replaces the webhook target list. Used on config hot-reload.
func (n *Notifier) SetTargets(webhooks []config.WebhookConfig) {
	n.mu.Lock()
	n.webhooks = webhooks
	n.mu.Unlock()
	slog.Info("alerts: webhook targets updated", "count", len(webhooks))
}

// Notify delivers a asynchronously to every target.
// Errors are logged; the caller is never blocked or failed.
func (n *Notifier) Notify(a model.Alert) {
	n.mu.RLock()
	targets := make([]config.WebhookConfig, len(n.webhooks))
	copy(targets, n.webhooks)
	n.mu.RUnlock()

	if len(targets) == 0 {
		return
	}
	go n.deliver(targets, a)
}

func (n *Notifier) deliver(targets []config.WebhookConfig, a model.Alert) {
	for _, wh := range targets {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.sendSlack(url, a)
		case "teams":
			err = n.sendTeams(url, a)
		case "http":
			err = n.sendHTTP(url, a)
		default:
			slog.Warn("alerts: unknown webhook type — skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("alerts: webhook delivery failed",
				"type", wh.Type,
				"alert", a.ID,
				"err", err,
			)
		} else {
			slog.Debug("alerts: webhook delivered",
				"type", wh.Type,
				"alert", a.ID,
			)
		}
	}
}

func (n *Notifier) sendSlack(url string, a model.Alert) error {
	body, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("*[%s]* IV infusion alert: %s", a.Severity, a.Message),
	})
	return n.post(url, body)
}

func (n *Notifier) sendTeams(url string, a model.Alert) error {
	payload := map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": "FF4F6A",
		"summary":    "DripGuard alert",
		"title":      fmt.Sprintf("DripGuard Alert: %s", a.Severity),
		"text":       a.Message,
	}
	body, _ := json.Marshal(payload)
	return n.post(url, body)
}

func (n *Notifier) sendHTTP(url string, a model.Alert) error {
	body, _ := json.Marshal(map[string]interface{}{"alert": a})
	return n.post(url, body)
}

func (n *Notifier) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
