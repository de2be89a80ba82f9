package mqttpush

import (
	"context"
	"testing"

	"github.com/asydorov/sygnal/internal/pushkin"
)

// Setup requires a reachable broker, so these tests cover the config
// validation paths that fail before any connection attempt.

// ─── Setup Validation Tests ────────────────────────────────────────

func TestSetupMissingHost(t *testing.T) {
	p, err := New("com.example.iot", pushkin.ConfigView{"type": "mqtt"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Setup(context.Background(), pushkin.Env{}); err == nil {
		t.Fatal("Setup() should fail without host")
	}
}

func TestSetupInvalidPort(t *testing.T) {
	tests := []string{"not-a-number", "0", "70000", "-1"}

	for _, port := range tests {
		t.Run(port, func(t *testing.T) {
			p, err := New("com.example.iot", pushkin.ConfigView{
				"type": "mqtt",
				"host": "broker.example.com",
				"port": port,
			})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if err := p.Setup(context.Background(), pushkin.Env{}); err == nil {
				t.Fatalf("Setup() should fail with port %q", port)
			}
		})
	}
}

func TestSetupInvalidQoS(t *testing.T) {
	p, err := New("com.example.iot", pushkin.ConfigView{
		"type": "mqtt",
		"host": "broker.example.com",
		"qos":  "3",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Setup(context.Background(), pushkin.Env{}); err == nil {
		t.Fatal("Setup() should fail with qos 3")
	}
}

// ─── Topic Validation Tests ────────────────────────────────────────

func TestValidPushkeyTopic(t *testing.T) {
	tests := []struct {
		pushkey string
		want    bool
	}{
		{"V2h5IG9uIGVhcnRo", true},
		{"device-01", true},
		{"", false},
		{"has/slash", false},
		{"has#hash", false},
		{"has+plus", false},
	}

	for _, tt := range tests {
		t.Run(tt.pushkey, func(t *testing.T) {
			if got := validPushkeyTopic(tt.pushkey); got != tt.want {
				t.Errorf("validPushkeyTopic(%q) = %v, want %v", tt.pushkey, got, tt.want)
			}
		})
	}
}

func TestPushkeyPrefix(t *testing.T) {
	if got := prefix("short"); got != "short" {
		t.Errorf("prefix(short) = %q", got)
	}
	if got := prefix("averylongpushkeyvalue"); got != "averylon..." {
		t.Errorf("prefix() = %q, want averylon...", got)
	}
}

// ─── Shutdown Tests ────────────────────────────────────────────────

func TestShutdownBeforeSetup(t *testing.T) {
	p, err := New("com.example.iot", pushkin.ConfigView{"type": "mqtt"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() before Setup error = %v", err)
	}
}
