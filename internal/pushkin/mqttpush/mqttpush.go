package mqttpush

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/asydorov/sygnal/internal/infrastructure/logging"
	"github.com/asydorov/sygnal/internal/infrastructure/mqtt"
	"github.com/asydorov/sygnal/internal/notification"
	"github.com/asydorov/sygnal/internal/pushkin"
)

const (
	defaultPort        = 1883
	defaultTopicPrefix = "sygnal/push"
	defaultQoS         = 1
)

// Pushkin delivers notifications by publishing them to an MQTT broker.
// Devices subscribe to their own pushkey topic under the configured
// prefix:
//
//	<topic_prefix>/<app_id>/<pushkey>
type Pushkin struct {
	appID string
	cfg   pushkin.ConfigView

	topicPrefix string
	client      *mqtt.Client
	logger      *logging.Logger
	rejects     *pushkin.RejectionLog
}

// New constructs an unstarted MQTT backend. Config validation and the
// broker connection happen in Setup.
func New(appID string, cfg pushkin.ConfigView) (pushkin.Pushkin, error) {
	return &Pushkin{
		appID: appID,
		cfg:   cfg,
	}, nil
}

// Setup validates the backend config and connects to the broker.
//
// Required config: host. Optional: port (1883), topic_prefix
// ("sygnal/push"), qos (1), username, password, tls, client_id.
func (p *Pushkin) Setup(ctx context.Context, env pushkin.Env) error {
	host, ok := p.cfg.Get("host")
	if !ok || host == "" {
		return fmt.Errorf("mqtt backend for %s: missing required config 'host'", p.appID)
	}

	port := defaultPort
	if raw, ok := p.cfg.Get("port"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 65535 {
			return fmt.Errorf("mqtt backend for %s: invalid port %q", p.appID, raw)
		}
		port = parsed
	}

	qos := defaultQoS
	if raw, ok := p.cfg.Get("qos"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 2 {
			return fmt.Errorf("mqtt backend for %s: invalid qos %q", p.appID, raw)
		}
		qos = parsed
	}

	p.topicPrefix = defaultTopicPrefix
	if raw, ok := p.cfg.Get("topic_prefix"); ok && raw != "" {
		p.topicPrefix = strings.TrimSuffix(raw, "/")
	}

	useTLS := false
	if raw, ok := p.cfg.Get("tls"); ok {
		useTLS = raw == "true" || raw == "1"
	}

	clientID := "sygnal-" + p.appID
	if raw, ok := p.cfg.Get("client_id"); ok && raw != "" {
		clientID = raw
	}

	username, _ := p.cfg.Get("username")
	password, _ := p.cfg.Get("password")

	client, err := mqtt.Connect(mqtt.Config{
		Host:     host,
		Port:     port,
		TLS:      useTLS,
		ClientID: clientID,
		Username: username,
		Password: password,
		QoS:      byte(qos),
	})
	if err != nil {
		return fmt.Errorf("mqtt backend for %s: %w", p.appID, err)
	}

	p.client = client
	p.logger = env.Logger
	p.rejects = pushkin.NewRejectionLog(env.DB)

	// Reconnects are handled by the client; surface them in the backend's
	// log so broker flapping is visible to operators.
	client.SetOnConnect(func() {
		p.logger.Info("mqtt broker connected", "host", host, "port", port)
	})
	client.SetOnDisconnect(func(err error) {
		p.logger.Warn("mqtt broker connection lost", "error", err)
	})

	p.logger.Info("mqtt backend ready",
		"host", host,
		"port", port,
		"topic_prefix", p.topicPrefix,
	)
	return nil
}

// GetConfig returns the backend's app-scoped configuration value.
func (p *Pushkin) GetConfig(key string) (string, bool) {
	return p.cfg.Get(key)
}

// Dispatch publishes the notification for each of this backend's devices.
//
// Pushkeys containing MQTT topic metacharacters can never form a valid
// topic, so they are treated as permanently rejected. Publish failures
// are delivery errors.
func (p *Pushkin) Dispatch(ctx context.Context, n *notification.Notification) ([]string, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encoding notification: %w", err)
	}

	var rejected []string
	for _, d := range n.Devices {
		if d.AppID != p.appID {
			continue
		}

		if !validPushkeyTopic(d.Pushkey) {
			p.logger.Warn("pushkey cannot form an mqtt topic", "pushkey_prefix", prefix(d.Pushkey))
			if err := p.rejects.Record(ctx, p.appID, d.Pushkey, "invalid mqtt topic"); err != nil {
				p.logger.Warn("failed to record rejected pushkey", "error", err)
			}
			rejected = append(rejected, d.Pushkey)
			continue
		}

		topic := fmt.Sprintf("%s/%s/%s", p.topicPrefix, p.appID, d.Pushkey)
		if err := p.client.PublishDefault(topic, payload); err != nil {
			return nil, fmt.Errorf("publishing notification: %w", err)
		}
	}

	return rejected, nil
}

// Shutdown disconnects from the broker.
func (p *Pushkin) Shutdown(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// validPushkeyTopic reports whether a pushkey is usable as an MQTT topic
// segment. Wildcards and separators are forbidden inside a single level.
func validPushkeyTopic(pushkey string) bool {
	if pushkey == "" {
		return false
	}
	return !strings.ContainsAny(pushkey, "#+/")
}

// prefix returns a short, log-safe prefix of a pushkey.
func prefix(pushkey string) string {
	const n = 8
	if len(pushkey) <= n {
		return pushkey
	}
	return pushkey[:n] + "..."
}
