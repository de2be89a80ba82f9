package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/asydorov/sygnal/internal/infrastructure/logging"
	"github.com/asydorov/sygnal/internal/notification"
	"github.com/asydorov/sygnal/internal/pushkin"
)

const (
	// defaultTimeoutSeconds bounds a single delivery POST.
	defaultTimeoutSeconds = 15

	// maxResponseBytes caps how much of the remote response is read.
	maxResponseBytes = 1 << 20 // 1MB

	// deliveryIDHeader carries a unique id per delivery attempt so the
	// remote service can deduplicate retried posts.
	deliveryIDHeader = "X-Sygnal-Delivery-ID"
)

// Pushkin delivers notifications by POSTing them to a configured HTTPS
// endpoint. The remote service answers with the pushkeys it permanently
// rejected, mirroring the notify response shape:
//
//	{"rejected": ["BAD_PUSHKEY"]}
type Pushkin struct {
	appID string
	cfg   pushkin.ConfigView

	url     string
	client  *http.Client
	logger  *logging.Logger
	rejects *pushkin.RejectionLog
}

// New constructs an unstarted webhook backend. Config validation happens
// in Setup.
func New(appID string, cfg pushkin.ConfigView) (pushkin.Pushkin, error) {
	return &Pushkin{
		appID: appID,
		cfg:   cfg,
	}, nil
}

// Setup validates the backend config and prepares the HTTP client.
//
// Required config: url. Optional: timeout_seconds (default 15).
func (p *Pushkin) Setup(ctx context.Context, env pushkin.Env) error {
	url, ok := p.cfg.Get("url")
	if !ok || url == "" {
		return fmt.Errorf("webhook backend for %s: missing required config 'url'", p.appID)
	}
	p.url = url

	timeout := defaultTimeoutSeconds
	if raw, ok := p.cfg.Get("timeout_seconds"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("webhook backend for %s: invalid timeout_seconds %q", p.appID, raw)
		}
		timeout = parsed
	}

	p.client = &http.Client{
		Timeout: time.Duration(timeout) * time.Second,
	}
	p.logger = env.Logger
	p.rejects = pushkin.NewRejectionLog(env.DB)

	p.logger.Info("webhook backend ready", "url", p.url, "timeout_seconds", timeout)
	return nil
}

// GetConfig returns the backend's app-scoped configuration value.
func (p *Pushkin) GetConfig(key string) (string, bool) {
	return p.cfg.Get(key)
}

// deliveryRequest is the body POSTed to the remote service.
type deliveryRequest struct {
	Notification *notification.Notification `json:"notification"`
}

// deliveryResponse is the expected remote response body.
type deliveryResponse struct {
	Rejected []string `json:"rejected"`
}

// Dispatch POSTs the notification to the configured endpoint and returns
// the pushkeys the remote rejected.
//
// Transport failures and non-2xx responses are delivery errors, not
// rejections: the notification may still be deliverable later.
func (p *Pushkin) Dispatch(ctx context.Context, n *notification.Notification) ([]string, error) {
	body, err := json.Marshal(deliveryRequest{Notification: n})
	if err != nil {
		return nil, fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(deliveryIDHeader, uuid.NewString())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delivering notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("delivery endpoint returned %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading delivery response: %w", err)
	}

	var dr deliveryResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &dr); err != nil {
			return nil, fmt.Errorf("decoding delivery response: %w", err)
		}
	}

	for _, pushkey := range dr.Rejected {
		if err := p.rejects.Record(ctx, p.appID, pushkey, "rejected by remote"); err != nil {
			// The rejection still reaches the homeserver via the
			// response; losing the audit row is not fatal.
			p.logger.Warn("failed to record rejected pushkey", "error", err)
		}
	}

	return dr.Rejected, nil
}

// Shutdown releases idle connections held by the HTTP client.
func (p *Pushkin) Shutdown(ctx context.Context) error {
	if p.client != nil {
		p.client.CloseIdleConnections()
	}
	return nil
}
